package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nidhogg/agora-world/internal/agent"
)

// SaveRoom upserts a room definition.
func (s *Store) SaveRoom(ctx context.Context, r agent.Room) error {
	topics, err := json.Marshal(r.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO rooms (id, name, type, attractor_strength, topics,
			capacity, atmosphere, color, icon)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			attractor_strength = EXCLUDED.attractor_strength,
			topics = EXCLUDED.topics,
			capacity = EXCLUDED.capacity,
			atmosphere = EXCLUDED.atmosphere,
			color = EXCLUDED.color,
			icon = EXCLUDED.icon`,
		r.ID, r.Name, string(r.Type), r.AttractorStrength, topics,
		r.Capacity, r.Atmosphere, r.Color, r.Icon,
	)
	if err != nil {
		return fmt.Errorf("save room %s: %w", r.ID, err)
	}
	return nil
}

// ListRooms returns every room.
func (s *Store) ListRooms(ctx context.Context) ([]agent.Room, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, type, attractor_strength, topics, capacity,
		       COALESCE(atmosphere,''), COALESCE(color,''), COALESCE(icon,'')
		FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []agent.Room
	for rows.Next() {
		var r agent.Room
		var typ string
		var topics []byte
		if err := rows.Scan(&r.ID, &r.Name, &typ, &r.AttractorStrength,
			&topics, &r.Capacity, &r.Atmosphere, &r.Color, &r.Icon); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		r.Type = agent.RoomType(typ)
		if err := json.Unmarshal(topics, &r.Topics); err != nil {
			return nil, fmt.Errorf("decode topics: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
