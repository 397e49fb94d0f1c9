// Package model defines domain entities for the application.
package model

// User is a registered chat participant.
// Users carry no reference to the messages posted under their name.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
