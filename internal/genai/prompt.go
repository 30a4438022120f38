package genai

import (
	"fmt"
	"strings"
)

const instructions = `You are an expert game developer specializing in creating self-contained, interactive retro arcade games using web technologies.
Your task is to generate a single, complete HTML file based on a user's game description.
This file must include all necessary HTML, CSS, and JavaScript within it.
The CSS should be in a <style> tag and the JavaScript in a <script> tag.
Do not use any external libraries or assets unless it is something simple from a CDN like Google Fonts.
The code should be clean, well-formatted, and directly usable.
The game should have a retro arcade feel. Try to use pixel fonts and a classic color palette unless the user specifies otherwise. Ensure the game is responsive and works well on different screen sizes.
Do not include any markdown formatting (like ` + "```html" + `) or explanations outside of the HTML code itself.
The final output should be ONLY the raw HTML code for the file.`

// BuildPrompt wraps a user description in the fixed generator instructions.
func BuildPrompt(description string) string {
	return fmt.Sprintf("%s\n\nUser's description: \"%s\"\n", instructions, strings.TrimSpace(description))
}

// StripFence removes a surrounding ``` code fence, with or without a
// language tag, and the whitespace around it.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	// Drop the info string (e.g. "html") on the opening line.
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		if info := strings.TrimSpace(body[:i]); !strings.ContainsAny(info, "<> ") {
			body = body[i+1:]
		}
	} else {
		body = strings.TrimLeft(body, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
