package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseFragment(t *testing.T, fragment string) []*html.Node {
	t.Helper()

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return nodes
}

func findAll(nodes []*html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "class") == class
	}
}

func isElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func TestRenderAllPlayers_OneCardPerPlayerInOrder(t *testing.T) {
	t.Parallel()

	renderer := MustNewRenderer()
	surface := NewMainContainer()
	players := []player.Player{
		{ID: 1, Name: "Fido", ImageURL: "a.png"},
		{ID: 2, Name: "Rex", ImageURL: "b.png"},
	}

	if err := renderer.RenderAllPlayers(surface, players); err != nil {
		t.Fatalf("render all players: %v", err)
	}

	nodes := parseFragment(t, string(surface.Content()))
	cards := findAll(nodes, hasClass("playerCard"))
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	var names []string
	for _, card := range cards {
		names = append(names, textOf(findAll([]*html.Node{card}, isElement("h2"))[0]))
	}
	if diff := cmp.Diff([]string{"Fido", "Rex"}, names); diff != "" {
		t.Fatalf("card order mismatch (-want +got):\n%s", diff)
	}

	first := []*html.Node{cards[0]}
	paragraphs := findAll(first, isElement("p"))
	if len(paragraphs) == 0 || textOf(paragraphs[0]) != "ID: 1" {
		t.Fatalf("expected first paragraph 'ID: 1', got %v", paragraphs)
	}
	img := findAll(first, isElement("img"))
	if len(img) != 1 || attr(img[0], "src") != "a.png" || attr(img[0], "alt") != "Fido" {
		t.Fatalf("unexpected image element in first card")
	}

	buttons := findAll(first, isElement("button"))
	var labels []string
	for _, b := range buttons {
		labels = append(labels, textOf(b))
	}
	if diff := cmp.Diff([]string{"See Details", "Remove from roster"}, labels); diff != "" {
		t.Fatalf("card actions mismatch (-want +got):\n%s", diff)
	}

	if bytes.Contains([]byte(surface.Content()), []byte("No players to display.")) {
		t.Fatalf("empty message must not appear alongside cards")
	}
}

func TestRenderAllPlayers_DetailsActionCarriesExactPlayer(t *testing.T) {
	t.Parallel()

	renderer := MustNewRenderer()
	surface := NewMainContainer()
	team := int64(4)
	want := player.Player{ID: 8, Name: "Bolt", Breed: "Collie", Status: "field", ImageURL: "c.png", TeamID: &team}

	if err := renderer.RenderAllPlayers(surface, []player.Player{want}); err != nil {
		t.Fatalf("render all players: %v", err)
	}

	nodes := parseFragment(t, string(surface.Content()))
	inputs := findAll(nodes, func(n *html.Node) bool {
		return isElement("input")(n) && attr(n, "name") == "player"
	})
	if len(inputs) != 1 {
		t.Fatalf("expected one player token input, got %d", len(inputs))
	}

	got, err := DecodePlayerToken(attr(inputs[0], "value"))
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token player mismatch (-want +got):\n%s", diff)
	}

	forms := findAll(nodes, isElement("form"))
	if attr(forms[1], "action") != "/players/8/remove" {
		t.Fatalf("unexpected remove action: %s", attr(forms[1], "action"))
	}
}

func TestRenderAllPlayers_EmptyRoster(t *testing.T) {
	t.Parallel()

	renderer := MustNewRenderer()

	for _, players := range [][]player.Player{nil, {}} {
		surface := NewMainContainer()
		if err := renderer.RenderAllPlayers(surface, players); err != nil {
			t.Fatalf("render all players: %v", err)
		}

		nodes := parseFragment(t, string(surface.Content()))
		if cards := findAll(nodes, hasClass("playerCard")); len(cards) != 0 {
			t.Fatalf("expected no cards, got %d", len(cards))
		}
		paragraphs := findAll(nodes, isElement("p"))
		if len(paragraphs) == 0 || textOf(paragraphs[0]) != "No players to display." {
			t.Fatalf("expected empty roster message, got %q", surface.Content())
		}
	}
}

func TestRenderAllPlayersWithForm_ShowsFormError(t *testing.T) {
	t.Parallel()

	renderer := MustNewRenderer()
	surface := NewMainContainer()
	form := NewPlayerForm{Name: "Luna", Error: "Breed is required."}

	if err := renderer.RenderAllPlayersWithForm(surface, nil, form); err != nil {
		t.Fatalf("render: %v", err)
	}

	nodes := parseFragment(t, string(surface.Content()))
	errs := findAll(nodes, hasClass("formError"))
	if len(errs) != 1 || textOf(errs[0]) != "Breed is required." {
		t.Fatalf("expected form error message")
	}
	nameInputs := findAll(nodes, func(n *html.Node) bool {
		return isElement("input")(n) && attr(n, "name") == "name"
	})
	if len(nameInputs) != 1 || attr(nameInputs[0], "value") != "Luna" {
		t.Fatalf("expected name value to be kept")
	}
}

func TestRenderSinglePlayer(t *testing.T) {
	t.Parallel()

	renderer := MustNewRenderer()
	team := int64(12)

	cases := []struct {
		name     string
		item     player.Player
		wantTeam string
	}{
		{name: "unassigned", item: player.Player{ID: 3, Name: "Daisy", Breed: "Beagle", ImageURL: "d.png"}, wantTeam: "Team: Unassigned"},
		{name: "on team", item: player.Player{ID: 3, Name: "Daisy", Breed: "Beagle", ImageURL: "d.png", TeamID: &team}, wantTeam: "Team: 12"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			surface := NewMainContainer()
			if err := renderer.RenderSinglePlayer(surface, tc.item); err != nil {
				t.Fatalf("render single player: %v", err)
			}

			nodes := parseFragment(t, string(surface.Content()))
			var lines []string
			for _, p := range findAll(nodes, isElement("p")) {
				lines = append(lines, textOf(p))
			}
			want := []string{"ID: 3", "Breed: Beagle", tc.wantTeam}
			if diff := cmp.Diff(want, lines); diff != "" {
				t.Fatalf("detail lines mismatch (-want +got):\n%s", diff)
			}

			headings := findAll(nodes, isElement("h2"))
			if len(headings) != 1 || textOf(headings[0]) != "Daisy" {
				t.Fatalf("expected name heading")
			}
			img := findAll(nodes, isElement("img"))
			if len(img) != 1 || attr(img[0], "alt") != "Daisy" {
				t.Fatalf("expected image with player name as alt text")
			}
			buttons := findAll(nodes, isElement("button"))
			if len(buttons) != 1 || textOf(buttons[0]) != "Back to all players" {
				t.Fatalf("expected back action")
			}
		})
	}
}

func TestRender_ReplacesWholeSurface(t *testing.T) {
	t.Parallel()

	renderer := MustNewRenderer()
	surface := NewMainContainer()
	item := player.Player{ID: 1, Name: "Fido"}

	if err := renderer.RenderAllPlayers(surface, []player.Player{item}); err != nil {
		t.Fatalf("render all players: %v", err)
	}
	if err := renderer.RenderSinglePlayer(surface, item); err != nil {
		t.Fatalf("render single player: %v", err)
	}

	if surface.Replacements() != 2 {
		t.Fatalf("expected 2 replacements, got %d", surface.Replacements())
	}
	if strings.Contains(string(surface.Content()), "playerCard") {
		t.Fatalf("previous list content must be gone after detail render")
	}
}

func TestRenderPage_WrapsMainContent(t *testing.T) {
	t.Parallel()

	renderer := MustNewRenderer()
	var out bytes.Buffer
	if err := renderer.RenderPage(&out, "<p>No players to display.</p>"); err != nil {
		t.Fatalf("render page: %v", err)
	}

	doc, err := html.Parse(&out)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	mains := findAll([]*html.Node{doc}, isElement("main"))
	if len(mains) != 1 || textOf(mains[0]) != "No players to display." {
		t.Fatalf("expected main to hold rendered fragment")
	}
}

func TestDecodePlayerToken_RejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "!!!", "WzFd"} {
		if _, err := DecodePlayerToken(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}

func TestDecodePlayerToken_AcceptsAnyListedPlayer(t *testing.T) {
	t.Parallel()

	cases := map[string]player.Player{
		"zero id":    {ID: 0, Name: "Ghost"},
		"empty name": {ID: 4},
		"long image": {ID: 5, Name: "Big", ImageURL: "https://img.example/" + strings.Repeat("a", 12000)},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := EncodePlayerToken(want)
			if err != nil {
				t.Fatalf("encode token: %v", err)
			}
			got, err := DecodePlayerToken(token)
			if err != nil {
				t.Fatalf("decode token: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("token player mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
