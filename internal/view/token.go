package view

import (
	"encoding/base64"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
)

// playerToken is the payload carried by the "See Details" action so the detail view
// renders the exact player shown on the card.
type playerToken struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Breed    string `json:"breed,omitempty"`
	Status   string `json:"status,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	TeamID   *int64 `json:"teamId,omitempty"`
}

func EncodePlayerToken(item player.Player) (string, error) {
	raw, err := sonic.Marshal(playerToken{
		ID:       item.ID,
		Name:     item.Name,
		Breed:    item.Breed,
		Status:   item.Status,
		ImageURL: item.ImageURL,
		TeamID:   item.TeamID,
	})
	if err != nil {
		return "", fmt.Errorf("encode player token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodePlayerToken(token string) (player.Player, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return player.Player{}, fmt.Errorf("decode player token: %w", err)
	}

	var decoded playerToken
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return player.Player{}, fmt.Errorf("unmarshal player token: %w", err)
	}

	// Any player the list rendered must open in detail, so the payload is not
	// checked beyond decoding.
	return player.Player{
		ID:       decoded.ID,
		Name:     decoded.Name,
		Breed:    decoded.Breed,
		Status:   decoded.Status,
		ImageURL: decoded.ImageURL,
		TeamID:   decoded.TeamID,
	}, nil
}
