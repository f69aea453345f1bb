package domain

import "github.com/bwmarrin/snowflake"

type ResultType string

const (
	TypeHousehold ResultType = "household"
	TypeMember    ResultType = "member"
	TypeParking   ResultType = "parking"
)

const (
	// MinQueryLength is counted in runes after trimming.
	MinQueryLength = 2
	SourceLimit    = 5
	MaxResults     = 10
)

// Result is one row of the global search dropdown. View names the screen
// the client opens for it.
type Result struct {
	Type     ResultType `json:"type"`
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	View     string     `json:"view"`
}

type HouseholdHit struct {
	ID        snowflake.ID
	Unit      string
	OwnerName string
}

type MemberHit struct {
	ID       snowflake.ID
	Name     string
	IDNumber string
	Unit     string
}

type ParkingHit struct {
	ID           snowflake.ID
	SlotNumber   string
	LicensePlate string
	Unit         string
}

func (h HouseholdHit) Result() Result {
	return Result{
		Type:     TypeHousehold,
		ID:       h.ID.String(),
		Title:    "Unit " + h.Unit,
		Subtitle: h.OwnerName,
		View:     "households",
	}
}

func (h MemberHit) Result() Result {
	return Result{
		Type:     TypeMember,
		ID:       h.ID.String(),
		Title:    h.Name,
		Subtitle: "Unit " + h.Unit + " · ID " + h.IDNumber,
		View:     "residents",
	}
}

func (h ParkingHit) Result() Result {
	return Result{
		Type:     TypeParking,
		ID:       h.ID.String(),
		Title:    "Slot " + h.SlotNumber,
		Subtitle: h.LicensePlate + " · Unit " + h.Unit,
		View:     "parking",
	}
}
