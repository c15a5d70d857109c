package puppybowl

import (
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
)

// envelope is the wrapper every roster API response uses: {success, error, data}.
type envelope[T any] struct {
	Success bool      `json:"success"`
	Error   *apiError `json:"error"`
	Data    *T        `json:"data"`
}

type playersData struct {
	Players []playerRecord `json:"players"`
}

type playerData struct {
	Player *playerRecord `json:"player"`
}

type newPlayerData struct {
	NewPlayer *playerRecord `json:"newPlayer"`
}

type playerRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Breed    string `json:"breed"`
	Status   string `json:"status"`
	ImageURL string `json:"imageUrl"`
	TeamID   *int64 `json:"teamId"`
	CohortID *int64 `json:"cohortId"`
}

type createPlayerRequest struct {
	Name     string `json:"name"`
	Breed    string `json:"breed"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// apiError accepts both {"name": "...", "message": "..."} and a bare string.
type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *apiError) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var msg string
		if err := sonic.UnmarshalString(trimmed, &msg); err != nil {
			return err
		}
		e.Message = msg
		return nil
	}

	type plain apiError
	var decoded plain
	if err := sonic.UnmarshalString(trimmed, &decoded); err != nil {
		return err
	}
	*e = apiError(decoded)
	return nil
}

func (e *apiError) notFound() bool {
	if e == nil {
		return false
	}
	return strings.Contains(strings.ToLower(e.Name), "notfound") ||
		strings.Contains(strings.ToLower(e.Message), "not found")
}

func (e *apiError) String() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Name != "" && e.Message != "":
		return e.Name + ": " + e.Message
	case e.Message != "":
		return e.Message
	default:
		return e.Name
	}
}

func (r playerRecord) toDomain() player.Player {
	return player.Player{
		ID:       r.ID,
		Name:     r.Name,
		Breed:    r.Breed,
		Status:   r.Status,
		ImageURL: r.ImageURL,
		TeamID:   r.TeamID,
	}
}

func mapPlayers(items []playerRecord) []player.Player {
	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain())
	}
	return out
}
