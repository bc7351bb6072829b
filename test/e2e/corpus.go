// Package e2e exercises the full catalog pipeline: manifests on disk,
// ingestion, storage and search, with a corpus large enough to make ranking
// mistakes visible.
package e2e

import (
	"strings"

	"github.com/uidex/uidex/internal/models"
	"github.com/uidex/uidex/internal/search"
)

// CatalogEntry is one component in the e2e corpus.
type CatalogEntry struct {
	Namespace     string
	Name          string
	Title         string
	ComponentType string
	Description   string
	Tags          []string
}

// ID returns the namespace/name identifier used in assertions.
func (e CatalogEntry) ID() string {
	return e.Namespace + "/" + e.Name
}

// QueryTestCase defines a query and the component ID(s) that must appear in
// search results. At least one of ExpectedIDs must be present.
type QueryTestCase struct {
	Query       string
	ExpectedIDs []string
	Description string
}

// Corpus holds catalog entries and query test cases for e2e tests.
type Corpus struct {
	Entries      []CatalogEntry
	TestCases    []QueryTestCase
	TotalEntries int
	TotalQueries int
}

// BuildCorpus returns a corpus of 100 components across four provider
// namespaces and a set of query test cases. Component names are unique
// corpus-wide so exact-name queries have a single right answer.
func BuildCorpus() *Corpus {
	entries := buildEntries()
	cases := buildQueryTestCases(entries)
	return &Corpus{
		Entries:      entries,
		TestCases:    cases,
		TotalEntries: len(entries),
		TotalQueries: len(cases),
	}
}

func buildEntries() []CatalogEntry {
	return []CatalogEntry{
		{"shadcn", "accordion", "Accordion", "display", "A vertically stacked set of interactive headings that each expand a section.", []string{"collapse", "disclosure"}},
		{"shadcn", "alert", "Alert", "feedback", "Displays a callout for user attention with title and message.", []string{"callout", "notice"}},
		{"shadcn", "alert-dialog", "Alert Dialog", "overlay", "A modal dialog that interrupts the user with important content and expects a response.", []string{"modal", "confirm"}},
		{"shadcn", "aspect-ratio", "Aspect Ratio", "layout", "Displays content within a desired ratio such as 16/9 for video embeds.", []string{"media", "sizing"}},
		{"shadcn", "avatar", "Avatar", "display", "An image element with a fallback for representing the user.", []string{"profile", "image"}},
		{"shadcn", "badge", "Badge", "display", "Displays a badge or a small count and status descriptor.", []string{"status", "label"}},
		{"shadcn", "breadcrumb", "Breadcrumb", "navigation", "Displays the path to the current resource using a hierarchy of links.", []string{"navigation", "links"}},
		{"shadcn", "button", "Button", "form", "Displays a button or a component that looks like a button.", []string{"action", "form"}},
		{"shadcn", "calendar", "Calendar", "form", "A date field component that lets users enter and edit dates.", []string{"date", "picker"}},
		{"shadcn", "card", "Card", "layout", "Displays a card with header, content, and footer sections.", []string{"container", "surface"}},
		{"shadcn", "carousel", "Carousel", "display", "A slideshow for cycling through images or slides of content.", []string{"slider", "gallery"}},
		{"shadcn", "chart", "Chart", "data", "Beautiful charts built with Recharts for dashboards and reports.", []string{"graph", "visualization"}},
		{"shadcn", "checkbox", "Checkbox", "form", "A control that allows the user to toggle between checked and not checked.", []string{"form", "boolean"}},
		{"shadcn", "collapsible", "Collapsible", "display", "An interactive component which expands and collapses a panel.", []string{"toggle", "disclosure"}},
		{"shadcn", "combobox", "Combobox", "form", "Autocomplete input and command palette with a list of suggestions.", []string{"autocomplete", "dropdown"}},
		{"shadcn", "command", "Command", "utility", "Fast, composable command menu with fuzzy filtering for actions.", []string{"palette", "shortcut"}},
		{"shadcn", "context-menu", "Context Menu", "overlay", "Displays a menu at the pointer, triggered by a right click.", []string{"menu", "right-click"}},
		{"shadcn", "data-table", "Data Table", "data", "Powerful table and datagrid built using TanStack Table.", []string{"grid", "sorting"}},
		{"shadcn", "date-picker", "Date Picker", "form", "A date picker component with range and presets built on a calendar popup.", []string{"date", "calendar"}},
		{"shadcn", "dialog", "Dialog", "overlay", "A window overlaid on the primary content, rendering the page inert.", []string{"modal", "overlay"}},
		{"shadcn", "drawer", "Drawer", "overlay", "A panel that slides in from the edge of the screen.", []string{"panel", "slide"}},
		{"shadcn", "dropdown-menu", "Dropdown Menu", "overlay", "Displays a menu of actions or functions triggered by a button.", []string{"menu", "actions"}},
		{"shadcn", "form", "Form", "form", "Building forms with validation powered by React Hook Form and Zod.", []string{"validation", "fields"}},
		{"shadcn", "hover-card", "Hover Card", "overlay", "Preview content available behind a link when the pointer hovers over it.", []string{"preview", "popup"}},
		{"shadcn", "input", "Input", "form", "Displays a form input field or a component that looks like one.", []string{"form", "text"}},
		{"shadcn", "input-otp", "Input OTP", "form", "Accessible one-time password input with copy paste functionality.", []string{"password", "code"}},
		{"shadcn", "label", "Label", "form", "Renders an accessible caption associated with a form control.", []string{"form", "caption"}},
		{"shadcn", "menubar", "Menubar", "navigation", "A visually persistent menu common in desktop applications.", []string{"menu", "desktop"}},
		{"shadcn", "navigation-menu", "Navigation Menu", "navigation", "A collection of links for navigating websites with flyout content.", []string{"navigation", "links"}},
		{"shadcn", "pagination", "Pagination", "navigation", "Pagination with page navigation, next and previous links.", []string{"pages", "navigation"}},
		{"shadcn", "popover", "Popover", "overlay", "Displays rich content in a portal, triggered by a button.", []string{"popup", "overlay"}},
		{"shadcn", "progress", "Progress", "feedback", "Displays an indicator showing the completion progress of a task.", []string{"loading", "bar"}},
		{"shadcn", "radio-group", "Radio Group", "form", "A set of checkable buttons where no more than one can be checked.", []string{"form", "choice"}},
		{"shadcn", "resizable", "Resizable", "layout", "Accessible resizable panel groups and layouts with keyboard support.", []string{"panels", "split"}},
		{"shadcn", "scroll-area", "Scroll Area", "layout", "Augments native scroll functionality for custom, cross-browser styling.", []string{"scrollbar", "viewport"}},
		{"shadcn", "select", "Select", "form", "Displays a list of options for the user to pick from, triggered by a button.", []string{"dropdown", "options"}},
		{"shadcn", "separator", "Separator", "layout", "Visually or semantically separates content.", []string{"divider", "rule"}},
		{"shadcn", "sheet", "Sheet", "overlay", "Extends the dialog to display content that complements the main screen.", []string{"panel", "side"}},
		{"shadcn", "sidebar", "Sidebar", "navigation", "A composable, themeable and customizable sidebar for application shells.", []string{"navigation", "shell"}},
		{"shadcn", "skeleton", "Skeleton", "feedback", "Use to show a placeholder while content is loading.", []string{"loading", "placeholder"}},
		{"shadcn", "slider", "Slider", "form", "An input where the user selects a value from within a given range.", []string{"range", "form"}},
		{"shadcn", "sonner", "Sonner", "feedback", "An opinionated toast notification component for React.", []string{"notification", "toast"}},
		{"shadcn", "switch", "Switch", "form", "A control that allows the user to toggle between on and off.", []string{"toggle", "boolean"}},
		{"shadcn", "table", "Table", "data", "A responsive table component for tabular data.", []string{"rows", "columns"}},
		{"shadcn", "tabs", "Tabs", "navigation", "A set of layered sections of content displayed one at a time.", []string{"sections", "switcher"}},
		{"shadcn", "textarea", "Textarea", "form", "Displays a form textarea for multi-line text entry.", []string{"form", "text"}},
		{"shadcn", "toast", "Toast", "feedback", "A succinct notification message that is displayed temporarily.", []string{"notification", "feedback"}},
		{"shadcn", "toggle", "Toggle", "form", "A two-state button that can be either on or off.", []string{"button", "state"}},
		{"shadcn", "toggle-group", "Toggle Group", "form", "A set of two-state buttons that can be toggled on or off together.", []string{"buttons", "group"}},
		{"shadcn", "tooltip", "Tooltip", "overlay", "A popup that displays information related to an element on hover or focus.", []string{"hint", "popup"}},
		{"magicui", "animated-beam", "Animated Beam", "animation", "An animated beam of light travelling along a path between elements.", []string{"animation", "svg"}},
		{"magicui", "animated-gradient-text", "Animated Gradient Text", "typography", "Text with a smoothly animated gradient sweeping across the glyphs.", []string{"gradient", "text"}},
		{"magicui", "animated-list", "Animated List", "animation", "A list that animates each item into view sequentially.", []string{"list", "stagger"}},
		{"magicui", "bento-grid", "Bento Grid", "layout", "A skewed grid layout for showcasing features in varied cell sizes.", []string{"grid", "showcase"}},
		{"magicui", "blur-fade", "Blur Fade", "animation", "Fades content into view while resolving from a blur.", []string{"fade", "entrance"}},
		{"magicui", "border-beam", "Border Beam", "animation", "A glowing beam that travels around the border of its container.", []string{"border", "glow"}},
		{"magicui", "box-reveal", "Box Reveal", "animation", "Sliding box animation that reveals text behind it.", []string{"reveal", "entrance"}},
		{"magicui", "confetti", "Confetti", "animation", "Celebration confetti bursts for success states and milestones.", []string{"celebration", "particles"}},
		{"magicui", "dock", "Dock", "navigation", "A macOS style dock with magnifying icons on hover.", []string{"launcher", "icons"}},
		{"magicui", "dot-pattern", "Dot Pattern", "background", "A repeating dot pattern background rendered as SVG.", []string{"background", "pattern"}},
		{"magicui", "flickering-grid", "Flickering Grid", "background", "A grid of squares that flicker with randomized opacity.", []string{"background", "grid"}},
		{"magicui", "globe", "Globe", "display", "An interactive rotating WebGL globe for landing pages.", []string{"webgl", "interactive"}},
		{"magicui", "grid-pattern", "Grid Pattern", "background", "A configurable grid pattern background with fading edges.", []string{"background", "pattern"}},
		{"magicui", "hero-video-dialog", "Hero Video Dialog", "overlay", "A hero video thumbnail that expands into a modal player.", []string{"video", "modal"}},
		{"magicui", "hyper-text", "Hyper Text", "typography", "Scrambles letters before settling on the final text.", []string{"scramble", "text"}},
		{"magicui", "icon-cloud", "Icon Cloud", "display", "An interactive rotating cloud of technology icons.", []string{"icons", "rotating"}},
		{"magicui", "marquee", "Marquee", "animation", "An infinite scrolling component for text, images, or logos.", []string{"scroll", "ticker"}},
		{"magicui", "meteors", "Meteors", "background", "Meteor shower streaks falling across a dark background.", []string{"background", "space"}},
		{"magicui", "morphing-text", "Morphing Text", "typography", "Morphs one word into another with a liquid transition.", []string{"morph", "text"}},
		{"magicui", "neon-gradient-card", "Neon Gradient Card", "display", "A card wrapped in an animated neon gradient border.", []string{"card", "neon"}},
		{"magicui", "number-ticker", "Number Ticker", "animation", "Animates a number to smoothly count up or down to a target value.", []string{"counter", "numbers"}},
		{"magicui", "orbiting-circles", "Orbiting Circles", "animation", "Circles orbiting along a ring, useful for integration showcases.", []string{"orbit", "icons"}},
		{"magicui", "particles", "Particles", "background", "A lightweight particle field that reacts to pointer movement.", []string{"background", "interactive"}},
		{"magicui", "pulsating-button", "Pulsating Button", "form", "A button with a pulsating glow to draw attention to the primary action.", []string{"action", "glow"}},
		{"magicui", "rainbow-button", "Rainbow Button", "form", "A button with an animated rainbow border.", []string{"action", "colorful"}},
		{"magicui", "retro-grid", "Retro Grid", "background", "A scrolling retro perspective grid horizon background.", []string{"background", "retro"}},
		{"magicui", "ripple", "Ripple", "background", "Concentric ripple circles emanating from the center.", []string{"background", "circles"}},
		{"magicui", "scratch-to-reveal", "Scratch To Reveal", "animation", "A scratch card surface the user rubs away to reveal content.", []string{"interactive", "reveal"}},
		{"magicui", "shimmer-button", "Shimmer Button", "form", "A button with a shimmering light which travels around the perimeter.", []string{"action", "shimmer"}},
		{"magicui", "shine-border", "Shine Border", "animation", "An animated shine that sweeps across the border of a container.", []string{"border", "shine"}},
		{"magicui", "sparkles-text", "Sparkles Text", "typography", "Text decorated with twinkling sparkle particles.", []string{"sparkle", "text"}},
		{"magicui", "terminal", "Terminal", "display", "A terminal window mockup with animated typed commands.", []string{"code", "console"}},
		{"magicui", "text-reveal", "Text Reveal", "typography", "Reveals text word by word as the user scrolls.", []string{"scroll", "reveal"}},
		{"magicui", "typing-animation", "Typing Animation", "typography", "Types out text character by character like a typewriter.", []string{"typewriter", "text"}},
		{"magicui", "word-rotate", "Word Rotate", "typography", "Rotates through a list of words with a vertical flip.", []string{"rotate", "text"}},
		{"aceternity", "3d-card", "3D Card", "display", "A card that tilts in three dimensions following the pointer.", []string{"tilt", "perspective"}},
		{"aceternity", "background-boxes", "Background Boxes", "background", "A full-bleed field of boxes that highlight on hover.", []string{"background", "hover"}},
		{"aceternity", "infinite-moving-cards", "Infinite Moving Cards", "animation", "Cards sliding in an infinite loop, built for testimonials.", []string{"cards", "loop"}},
		{"aceternity", "lamp", "Lamp", "display", "A dramatic lamp lighting effect for section headers.", []string{"lighting", "hero"}},
		{"aceternity", "parallax-scroll", "Parallax Scroll", "animation", "An image grid where columns scroll at different parallax speeds.", []string{"parallax", "images"}},
		{"aceternity", "spotlight", "Spotlight", "display", "A spotlight sweep that illuminates hero content.", []string{"lighting", "hero"}},
		{"aceternity", "sticky-scroll-reveal", "Sticky Scroll Reveal", "animation", "Content that pins while scrolling and reveals sections in sequence.", []string{"sticky", "scroll"}},
		{"aceternity", "text-generate-effect", "Text Generate Effect", "typography", "Text that fades in word by word as if being generated.", []string{"generate", "text"}},
		{"aceternity", "tracing-beam", "Tracing Beam", "animation", "A beam that traces down the page following scroll progress.", []string{"scroll", "line"}},
		{"aceternity", "wavy-background", "Wavy Background", "background", "Animated waves drawn on canvas behind hero content.", []string{"waves", "canvas"}},
		{"radix", "focus-scope", "Focus Scope", "utility", "Manages focus within a subtree, trapping and restoring focus.", []string{"focus", "accessibility"}},
		{"radix", "portal", "Portal", "utility", "Renders children into a different part of the document.", []string{"render", "escape"}},
		{"radix", "presence", "Presence", "utility", "Keeps elements mounted while exit animations play.", []string{"mount", "transition"}},
		{"radix", "slot", "Slot", "utility", "Merges its props onto the immediate child element.", []string{"composition", "props"}},
		{"radix", "visually-hidden", "Visually Hidden", "utility", "Hides content visually while keeping it available to screen readers.", []string{"accessibility", "hidden"}},
	}
}

// queryPhrases are run against the corpus; each must match at least one
// entry under the same semantics the store uses for candidate selection.
var queryPhrases = []string{
	"button",
	"marquee",
	"calendar",
	"skeleton",
	"carousel",
	"tooltip",
	"combobox",
	"globe",
	"confetti",
	"dock",
	"terminal",
	"spotlight",
	"particles",
	"ripple",
	"portal",
	"slot",
	"drawer",
	"popover",
	"sidebar",
	"breadcrumb",
	"date picker",
	"radio group",
	"context menu",
	"navigation menu",
	"scroll area",
	"data table",
	"hover card",
	"animated beam",
	"number ticker",
	"bento grid",
	"shimmer button",
	"toggle group",
	"alert dialog",
	"aspect ratio",
	"word rotate",
	"infinite moving cards",
	"tracing beam",
	"orbiting circles",
	"typing animation",
	"autocomplete",
	"notification",
	"placeholder loading",
	"screen readers",
	"one-time password",
}

func buildQueryTestCases(entries []CatalogEntry) []QueryTestCase {
	var cases []QueryTestCase
	for _, q := range queryPhrases {
		terms := search.Terms(q)
		if len(terms) == 0 {
			continue
		}
		var expected []string
		for _, e := range entries {
			if matchesAllTerms(e, terms) {
				expected = append(expected, e.ID())
			}
		}
		if len(expected) == 0 {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:       q,
			ExpectedIDs: expected,
			Description: "query " + q,
		})
	}
	return cases
}

// matchesAllTerms mirrors candidate selection: every term must appear in at
// least one of name, title, description, or tags, case-insensitively.
func matchesAllTerms(e CatalogEntry, terms []string) bool {
	fields := []string{
		strings.ToLower(e.Name),
		strings.ToLower(e.Title),
		strings.ToLower(e.Description),
		strings.ToLower(strings.Join(e.Tags, " ")),
	}
	for _, term := range terms {
		found := false
		for _, f := range fields {
			if strings.Contains(f, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Namespaces returns the distinct provider namespaces in entry order.
func (c *Corpus) Namespaces() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range c.Entries {
		if !seen[e.Namespace] {
			seen[e.Namespace] = true
			out = append(out, e.Namespace)
		}
	}
	return out
}

// ToComponentInputs converts the corpus entries to ingestion inputs.
func (c *Corpus) ToComponentInputs() []*models.ComponentInput {
	out := make([]*models.ComponentInput, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = &models.ComponentInput{
			Name:          e.Name,
			Namespace:     e.Namespace,
			ComponentType: e.ComponentType,
			Title:         e.Title,
			Description:   e.Description,
			Tags:          e.Tags,
		}
	}
	return out
}
