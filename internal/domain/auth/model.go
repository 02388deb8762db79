package auth

import "time"

const (
	OTPDigits      = 6
	MaxOTPAttempts = 5
)

// Challenge es un OTP pendiente. Solo se guarda el hash del código.
type Challenge struct {
	ID        string    `bson:"_id" json:"id"`
	AdminID   string    `bson:"adminId" json:"adminId"`
	CodeHash  string    `bson:"codeHash" json:"codeHash"`
	Attempts  int       `bson:"attempts" json:"attempts"`
	Used      bool      `bson:"used" json:"used"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// LoginResult: o viene Token, o viene ChallengeID (OTP requerido).
type LoginResult struct {
	Token       string
	OTPRequired bool
	ChallengeID string
	ExpiresAt   time.Time
}
