package domain

// Emotion captures the self-reported emotional state of a student.
type Emotion string

const (
	EmotionHappy   Emotion = "HAPPY"
	EmotionNeutral Emotion = "NEUTRAL"
	EmotionSad     Emotion = "SAD"
	EmotionStress  Emotion = "STRESS"
)

// Student is the role-specific profile composed over a User credential.
type Student struct {
	UserID        string
	Emotion       Emotion
	CoinEarned    int
	CoinAvailable int
}
