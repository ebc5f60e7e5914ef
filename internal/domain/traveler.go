package domain

import "strings"

type TravelerCategory string

const (
	TravelerInfant TravelerCategory = "INFANT"
	TravelerChild  TravelerCategory = "CHILD"
	TravelerAdult  TravelerCategory = "ADULT"
)

const (
	minTravelerAge = 0
	maxTravelerAge = 150
)

// Traveler is immutable once built by NewTraveler.
type Traveler struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       int    `json:"age"`
}

func NewTraveler(id, firstName, lastName, email, phone string, age int) (Traveler, error) {
	if strings.TrimSpace(id) == "" {
		return Traveler{}, ErrTravelerIDRequired
	}
	if strings.TrimSpace(firstName) == "" {
		return Traveler{}, ErrFirstNameRequired
	}
	if strings.TrimSpace(lastName) == "" {
		return Traveler{}, ErrLastNameRequired
	}
	if age < minTravelerAge || age > maxTravelerAge {
		return Traveler{}, ErrInvalidAge
	}
	return Traveler{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		Age:       age,
	}, nil
}

func (t Traveler) FullName() string {
	return t.FirstName + " " + t.LastName
}

func (t Traveler) Category() TravelerCategory {
	switch {
	case t.Age < 2:
		return TravelerInfant
	case t.Age < 18:
		return TravelerChild
	default:
		return TravelerAdult
	}
}
