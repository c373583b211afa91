package devapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/excursio/excursio-client/internal/domain/excursion"
)

// Seed loads excursions into the store. With an empty path a small demo
// excursion is seeded so the client has something to book against a freshly
// started server.
func Seed(ctx context.Context, store Store, path string) error {
	dtos, err := seedDTOs(path)
	if err != nil {
		return err
	}

	for _, dto := range dtos {
		exc, err := excursion.FromDTO(dto)
		if err != nil {
			return fmt.Errorf("seed excursion: %w", err)
		}
		if err := store.PutExcursion(ctx, exc); err != nil {
			return fmt.Errorf("seed excursion %s: %w", exc.ID, err)
		}
	}

	log.Info().Int("excursions", len(dtos)).Msg("store seeded")
	return nil
}

func seedDTOs(path string) ([]excursion.DTO, error) {
	if path == "" {
		return demoExcursions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var dtos []excursion.DTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return dtos, nil
}

func demoExcursions() []excursion.DTO {
	raw := `[
		{
			"id": "7a9f1c2e-3b4d-4e5f-8a6b-1c2d3e4f5a6b",
			"title": "Обзорная экскурсия по Минску",
			"description": "Пешеходная прогулка по историческому центру",
			"city": "Минск",
			"availableTicketsByDate": {
				"2026-09-05": {
					"Standard": {"count": 20, "price": 25, "currency": "BYN"},
					"Student":  {"count": 10, "price": 15, "currency": "BYN"}
				},
				"2026-09-06": {
					"Standard": {"count": 0, "price": 25, "currency": "BYN"}
				}
			}
		},
		{
			"id": "2b8e4d6f-5a7c-4b9d-9e1f-2a3b4c5d6e7f",
			"title": "Мирский замок",
			"description": "Автобусный тур с экскурсоводом",
			"city": "Мир",
			"availableTicketsByDate": {
				"2026-09-12": {
					"Standard": {"count": 40, "price": 60, "currency": "BYN"}
				}
			}
		}
	]`

	var dtos []excursion.DTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		// The demo payload is a constant; a decode failure is a programming error.
		panic(err)
	}
	return dtos
}
