package meals

// FamilyMember is a household member key that can be tagged on a meal.
type FamilyMember struct {
	Key   string `json:"key"`
	Emoji string `json:"emoji"`
}

// FamilyMembers is the fixed household table in display order.
var FamilyMembers = []FamilyMember{
	{Key: "dad", Emoji: "👨‍💼"},
	{Key: "mom", Emoji: "👩‍💼"},
	{Key: "brother", Emoji: "👦"},
	{Key: "sister", Emoji: "👧"},
	{Key: "baby", Emoji: "👶"},
	{Key: "grandpa", Emoji: "👴"},
	{Key: "grandma", Emoji: "👵"},
}

// IsFamilyMember reports whether key names a known member.
func IsFamilyMember(key string) bool {
	for _, m := range FamilyMembers {
		if m.Key == key {
			return true
		}
	}
	return false
}

// FamilyEmojis returns key -> emoji.
func FamilyEmojis() map[string]string {
	out := make(map[string]string, len(FamilyMembers))
	for _, m := range FamilyMembers {
		out[m.Key] = m.Emoji
	}
	return out
}
