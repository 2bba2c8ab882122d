package command

// Words every world understands without declaring them. A world's own
// vocabulary takes precedence over any of these that are spelled the same.
var (
	// MovementWords introduce a direction to move in.
	MovementWords = []string{
		"go", "move", "run", "walk", "jog", "amble", "dart", "limp", "saunter",
		"scamper", "scurry", "stagger", "strut", "swagger", "tiptoe", "waltz",
		"sneak",
	}

	// Prepositions are dropped from input.
	Prepositions = []string{
		"aboard", "about", "above", "across", "after", "against", "along",
		"amid", "among", "around", "as", "at", "before", "behind", "below",
		"beneath", "beside", "between", "beyond", "but", "by", "concerning",
		"considering", "despite", "during", "except", "following", "for",
		"from", "in", "inside", "into", "like", "minus", "near", "next", "of",
		"off", "on", "onto", "opposite", "out", "outside", "over", "past",
		"per", "plus", "regarding", "round", "save", "since", "than",
		"through", "till", "to", "toward", "under", "underneath", "unlike",
		"until", "up", "upon", "versus", "via", "with", "within", "without",
	}

	// Determiners are dropped from input.
	Determiners = []string{
		"my", "our", "your", "his", "her", "its", "their", "first", "second",
		"third", "next", "last", "much", "some", "no", "any", "many", "enough",
		"several", "little", "all", "lot of", "plenty of", "another", "a", "an",
		"the", "each", "every", "neither", "either", "one", "two", "three",
		"ten", "fifty", "hundred", "thousand",
	}
)
