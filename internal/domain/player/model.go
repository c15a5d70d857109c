package player

import (
	"fmt"
	"strconv"
	"strings"
)

// UnassignedTeam is displayed for players without a team reference.
const UnassignedTeam = "Unassigned"

// Player is a roster record as served by the remote roster API.
type Player struct {
	ID       int64
	Name     string
	Breed    string
	Status   string
	ImageURL string
	// TeamID is nil or zero when the player is not on a team.
	TeamID *int64
}

// TeamLabel returns the raw team id, or UnassignedTeam when there is none.
func (p Player) TeamLabel() string {
	if p.TeamID == nil || *p.TeamID == 0 {
		return UnassignedTeam
	}
	return strconv.FormatInt(*p.TeamID, 10)
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}

// Draft is the input for enrolling a new player; the remote system assigns the id.
type Draft struct {
	Name     string
	Breed    string
	ImageURL string
}
