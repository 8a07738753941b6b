package tagging

// FallbackTag is assigned when no theme category matches, so a submission is
// never stored without at least one tag.
const FallbackTag = "general_memory"

type category struct {
	ID       string
	Keywords []string
	Phrases  []string
}

// taxonomy is the fixed theme catalogue. Declaration order matters: the first
// category to reach the top score wins ties. Loaded once, never mutated.
var taxonomy = []category{
	{
		ID: "nostalgia",
		Keywords: []string{
			"nostalgia", "nostalgic", "remember", "recall", "relive", "miss", "memories", "memory",
			"school days", "those days", "good time", "great time", "best time", "best days",
			"golden period", "golden years", "golden days", "best years", "good old days",
			"days", "period", "time", "years", "moments", "childhood", "youth",
		},
		Phrases: []string{
			"school days", "those days", "good time", "great time", "best time", "best days",
			"golden period", "golden years", "miss school", "best years", "good old days",
		},
	},
	{
		ID:       "friendship",
		Keywords: []string{"friend", "friends", "companion", "pal", "buddy", "gang", "group", "bond", "together", "close"},
		Phrases:  []string{"close friends", "best friends", "school friends", "bus gang"},
	},
	{
		ID:       "teachers",
		Keywords: []string{"teacher", "teachers", "ma'am", "sir", "maam", "madam", "principal", "class teacher", "mentor", "guide"},
		Phrases:  []string{"english ma'am", "class teacher", "favorite teacher"},
	},
	{
		ID:       "sports_athletics",
		Keywords: []string{"sport", "sports", "game", "games", "team", "match", "football", "cricket", "athletics", "tournament", "sports day"},
		Phrases:  []string{"sports day", "annual sports", "football match"},
	},
	{
		ID:       "academic_excellence",
		Keywords: []string{"study", "studies", "exam", "exams", "teacher", "class", "learn", "learning", "education", "academic", "knowledge"},
		Phrases:  []string{"exam time", "class room", "study hours"},
	},
	{
		ID:       "cultural_events",
		Keywords: []string{"fest", "festival", "performance", "dance", "drama", "music", "concert", "annual day", "cultural"},
		Phrases:  []string{"annual day", "cultural fest", "annual function"},
	},
	{
		ID:       "spiritual_growth",
		Keywords: []string{"prayer", "prayers", "mass", "chapel", "church", "faith", "god", "spiritual", "blessing"},
		Phrases:  []string{"morning prayer", "chapel service"},
	},
	{
		ID:       "house_rivalry",
		Keywords: []string{"house", "houses", "competition", "rivalry", "red house", "blue house", "green house", "yellow house", "inter-house"},
		Phrases:  []string{"house competition", "inter-house", "house points"},
	},
	{
		ID:       "bus_memories",
		Keywords: []string{"bus", "buses", "transport", "journey", "travel", "route"},
		Phrases:  []string{"bus ride", "bus gang", "school bus"},
	},
}

// CategoryIDs returns the taxonomy ids in declaration order.
func CategoryIDs() []string {
	ids := make([]string, 0, len(taxonomy))
	for _, c := range taxonomy {
		ids = append(ids, c.ID)
	}
	return ids
}
