package main

const defaultBackground = "https://images.unsplash.com/photo-1507525428034-b723cf961d3e"

var defaultState = AppState{
	Names:      "Alex & Sam",
	Tagline:    "Our quest log of adventures to share",
	Background: defaultBackground,
	Overlay:    0.6,
	Sections: []Category{
		{
			Title: "Travel Adventures",
			Tasks: []Task{
				{Text: "See the northern lights"},
				{Text: "Road trip along the coast"},
				{Text: "Visit Japan in cherry blossom season"},
				{Text: "Camp under the stars"},
			},
		},
		{
			Title: "Personal Goals",
			Tasks: []Task{
				{Text: "Run a half marathon together"},
				{Text: "Learn to cook a new cuisine"},
				{Text: "Read twenty books this year"},
				{Text: "Take a dance class"},
			},
		},
	},
}

// DefaultState returns a fresh copy of the built-in quest log. Callers may mutate it freely.
func DefaultState() *AppState {
	return defaultState.Clone()
}
