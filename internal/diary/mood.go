package diary

// Mood is one of the fixed moods an entry can carry. Moments may carry any
// emoji, the manual default being MoodStar.
type Mood string

const (
	MoodSad     Mood = "😢"
	MoodAngry   Mood = "😡"
	MoodTired   Mood = "😴"
	MoodHappy   Mood = "😊"
	MoodAmazing Mood = "✨"

	// MoodStar is the default mood of manually created moments
	MoodStar Mood = "⭐"
)

// DefaultMood is used when an entry is saved without a selected mood
const DefaultMood = MoodHappy

// Moods lists the enumeration in scale order, lowest first
var Moods = []Mood{MoodSad, MoodAngry, MoodTired, MoodHappy, MoodAmazing}

var moodValues = map[Mood]int{
	MoodSad:     1,
	MoodAngry:   2,
	MoodTired:   3,
	MoodHappy:   4,
	MoodAmazing: 5,
}

var moodLabels = map[Mood]string{
	MoodSad:     "Sad",
	MoodAngry:   "Angry",
	MoodTired:   "Tired",
	MoodHappy:   "Happy",
	MoodAmazing: "Amazing",
}

// NeutralValue is the scale value of moods outside the enumeration
const NeutralValue = 3

// Valid reports whether m belongs to the enumeration
func (m Mood) Valid() bool {
	_, ok := moodValues[m]
	return ok
}

// Value maps m onto the 1..5 scale, NeutralValue when m is unknown
func (m Mood) Value() int {
	if v, ok := moodValues[m]; ok {
		return v
	}
	return NeutralValue
}

// Positive reports whether m counts towards the positive rate
func (m Mood) Positive() bool {
	return m == MoodHappy || m == MoodAmazing
}

func (m Mood) Label() string {
	if l, ok := moodLabels[m]; ok {
		return l
	}
	return string(m)
}

func (m Mood) String() string {
	return string(m)
}
