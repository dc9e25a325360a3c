package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

// isoLayout matches JavaScript's Date.toISOString, which the backend stores.
const isoLayout = "2006-01-02T15:04:05.000Z"

type postPayload struct {
	Titulo      string `json:"titulo"`
	Conteudo    string `json:"conteudo"`
	DataCriacao string `json:"dataCriacao,omitempty"`
	Autor       string `json:"autor,omitempty"`
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	resp, err := c.authed(ctx, http.MethodGet, "/portal", nil)
	if err != nil {
		return nil, err
	}
	return NormalizePosts(c.decode(resp), c.newID), nil
}

// CreatePost publishes a post dated now unless in.CreatedAt is set.
func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (models.Post, error) {
	p, err := postBody(in)
	if err != nil {
		return models.Post{}, err
	}
	if p.DataCriacao == "" {
		p.DataCriacao = c.now().UTC().Format(isoLayout)
	}
	resp, err := c.authed(ctx, http.MethodPost, "/portal", p)
	if err != nil {
		return models.Post{}, err
	}
	return c.postFrom(resp), nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, in models.PostInput) (models.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Post{}, validationError("post id is required")
	}
	p, err := postBody(in)
	if err != nil {
		return models.Post{}, err
	}
	resp, err := c.authed(ctx, http.MethodPut, "/portal/"+url.PathEscape(id), p)
	if err != nil {
		return models.Post{}, err
	}
	return c.postFrom(resp), nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("post id is required")
	}
	_, err := c.authed(ctx, http.MethodDelete, "/portal/"+url.PathEscape(id), nil)
	return err
}

// PostID returns the backend identifier of p. Posts whose id was generated
// locally cannot be addressed on the backend.
func PostID(p models.Post) (string, error) {
	if p.Transient || p.ID == "" {
		return "", validationError("post has no identifier")
	}
	return p.ID, nil
}

func postBody(in models.PostInput) (postPayload, error) {
	p := postPayload{
		Titulo:      strings.TrimSpace(in.Title),
		Conteudo:    strings.TrimSpace(in.Body),
		DataCriacao: strings.TrimSpace(in.CreatedAt),
		Autor:       strings.TrimSpace(in.Author),
	}
	if p.Titulo == "" || p.Conteudo == "" {
		return postPayload{}, validationError("title and content are required")
	}
	return p, nil
}

func (c *Client) postFrom(resp *response) models.Post {
	if obj, ok := c.decode(resp).(map[string]any); ok {
		return normalizePost(obj, c.newID)
	}
	return models.Post{}
}
