package view

import "vibecade/internal/route"

var examples = []Showcase{
	{
		Title:       "Retro Snake Game",
		Description: "A classic snake game where you control a snake to eat food and grow longer, with a score counter.",
		Prompt:      "A simple retro snake game with a score counter, dark theme, and neon green accents.",
	},
	{
		Title:       "Pomodoro Timer",
		Description: "A productivity timer that cycles through work and break periods to help you stay focused.",
		Prompt:      "A minimalist Pomodoro timer with start, pause, and reset buttons. It should have a visual indicator for the time remaining.",
	},
	{
		Title:       "Pixel Art Creator",
		Description: "A simple canvas for creating pixel art. Includes a color palette and a button to clear the grid.",
		Prompt:      `A pixel art drawing app with a 16x16 grid. Include a small color palette and a "Clear" button.`,
	},
	{
		Title:       "Whack-a-Mole",
		Description: "The classic arcade game. Moles pop up from holes at random, and you score points by clicking them.",
		Prompt:      `A "whack-a-mole" game with a 3x3 grid of holes. Moles should appear for a short time. Include a score display.`,
	},
	{
		Title:       "Minimalist Calculator",
		Description: "A clean, modern calculator that handles basic arithmetic operations like addition, subtraction, etc.",
		Prompt:      "A simple calculator with a clean, light interface. It should support addition, subtraction, multiplication, division, and have a clear button.",
	},
	{
		Title:       "Weather App",
		Description: "A basic app that fetches and displays the current weather for a city you enter.",
		Prompt:      "A simple weather app. It should have an input field for a city name and a button. When clicked, it should show the current temperature for that city. Use a light, clean design.",
	},
	{
		Title:       "To-Do List",
		Description: "A classic to-do list app to add, track, and complete tasks with a satisfying check-off animation.",
		Prompt:      "A minimalist to-do list app. Users can add tasks, and check them off to mark as complete. Completed tasks should have a line-through. Use a clean, light theme.",
	},
}

func showcase() []Showcase {
	out := make([]Showcase, len(examples))
	for i, e := range examples {
		e.Link = route.StudioFragment(e.Prompt)
		out[i] = e
	}
	return out
}
