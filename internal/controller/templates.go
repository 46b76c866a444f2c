package controller

// Templates are the example prompts offered next to the prompt input.
var Templates = []string{
	"Start with upbeat dance music, then transition to chill vibes, and end with melancholic songs",
	"Songs that feel like a rainy Sunday morning with a cup of coffee",
	"A road trip through the desert at sunset",
	"Energetic workout music that slowly winds down into a cool-down stretch",
	"Nostalgic 2000s indie that makes me feel like a teenager again",
	"Late night lo-fi for studying, no vocals",
}
