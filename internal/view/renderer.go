package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
	"github.com/valyala/bytebufferpool"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewPlayerForm holds the values and error message echoed back in the add-player form.
type NewPlayerForm struct {
	Name     string
	Breed    string
	ImageURL string
	Error    string
}

type playerCard struct {
	Player player.Player
	Token  string
}

type listModel struct {
	Cards []playerCard
	Form  NewPlayerForm
}

// Renderer turns roster data into HTML fragments written onto a Surface.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("view").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

func MustNewRenderer() *Renderer {
	renderer, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return renderer
}

// RenderAllPlayers replaces the surface with one card per player, in order, or with the
// empty-roster message when players is empty.
func (r *Renderer) RenderAllPlayers(surface Surface, players []player.Player) error {
	return r.RenderAllPlayersWithForm(surface, players, NewPlayerForm{})
}

// RenderAllPlayersWithForm is RenderAllPlayers with a pre-filled add-player form.
func (r *Renderer) RenderAllPlayersWithForm(surface Surface, players []player.Player, form NewPlayerForm) error {
	model := listModel{
		Cards: make([]playerCard, 0, len(players)),
		Form:  form,
	}
	for _, item := range players {
		token, err := EncodePlayerToken(item)
		if err != nil {
			return err
		}
		model.Cards = append(model.Cards, playerCard{Player: item, Token: token})
	}

	return r.replace(surface, "list", model)
}

// RenderSinglePlayer replaces the surface with the detail view of item.
func (r *Renderer) RenderSinglePlayer(surface Surface, item player.Player) error {
	return r.replace(surface, "detail", item)
}

// RenderPage writes the full HTML document with main as the content of <main>.
func (r *Renderer) RenderPage(w io.Writer, main template.HTML) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.templates.ExecuteTemplate(buf, "page", main); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) replace(surface Surface, name string, data any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.templates.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	// Output of html/template is already escaped.
	surface.Replace(template.HTML(buf.String()))
	return nil
}
