package domain

import (
	"errors"
	"time"
)

// Common validation errors for Profile
var (
	ErrEmptyProfileName           = errors.New("profile name cannot be empty")
	ErrInvalidProfileAge          = errors.New("profile age must be positive")
	ErrEmptyProfileNativeLanguage = errors.New("profile native language cannot be empty")
)

// Profile represents a learner: identity plus the learning attributes the
// planning capability uses to adapt stage objectives and vocabulary.
// Referenced by Document and UnknownWord, never owned by them.
type Profile struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	EducationLevel string    `json:"education_level"`
	EducationYear  string    `json:"education_year"`
	Profession     string    `json:"profession"`
	Nationality    string    `json:"nationality"`
	NativeLanguage string    `json:"native_language"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewProfile creates a new Profile with the given attributes.
// The ID is assigned by the store on insert.
// Returns an error if validation fails.
func NewProfile(
	name string,
	age int,
	educationLevel, educationYear, profession, nationality, nativeLanguage string,
) (*Profile, error) {
	profile := &Profile{
		Name:           name,
		Age:            age,
		EducationLevel: educationLevel,
		EducationYear:  educationYear,
		Profession:     profession,
		Nationality:    nationality,
		NativeLanguage: nativeLanguage,
		CreatedAt:      time.Now().UTC(),
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the Profile has valid data.
// Returns an error if any field fails validation.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return ErrEmptyProfileName
	}

	if p.Age <= 0 {
		return ErrInvalidProfileAge
	}

	if p.NativeLanguage == "" {
		return ErrEmptyProfileNativeLanguage
	}

	return nil
}
