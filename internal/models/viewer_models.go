package models

import "time"

type Viewer struct {
	Name  string `json:"name" dynamodbav:"name"`
	Email string `json:"email" dynamodbav:"email"`
	Age   int    `json:"age" dynamodbav:"age"`
}

// Account is a registered viewer as stored in the viewer table.
type Account struct {
	Viewer
	Phone        string `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Gender       string `json:"gender,omitempty" dynamodbav:"gender,omitempty"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	// SessionHash is the bcrypt hash of the id of the viewer's current login.
	SessionHash string    `json:"-" dynamodbav:"session_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}
