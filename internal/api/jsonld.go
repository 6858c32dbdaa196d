package api

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"messageapi/internal/message"
)

const (
	contentTypeJSONLD  = "application/ld+json; charset=utf-8"
	contentTypeJSON    = "application/json; charset=utf-8"
	contentTypeProblem = "application/problem+json; charset=utf-8"

	messagesIRI       = "/api/messages"
	messageContextIRI = "/api/contexts/Message"
	docsIRI           = "/api/docs.jsonld"
)

// Collection is the JSON-LD document returned for a message listing.
type Collection struct {
	Context    string       `json:"@context"`
	ID         string       `json:"@id"`
	Type       string       `json:"@type"`
	TotalItems int64        `json:"totalItems"`
	Member     []Member     `json:"member"`
	View       *PartialView `json:"view,omitempty"`
	Search     IriTemplate  `json:"search"`
}

// Member is one message inside a collection.
type Member struct {
	Type        string    `json:"@type"`
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

// PartialView links the pages of a paginated collection.
type PartialView struct {
	ID       string `json:"@id"`
	Type     string `json:"@type"`
	First    string `json:"first"`
	Last     string `json:"last"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

type IriTemplate struct {
	Type                   string               `json:"@type"`
	Template               string               `json:"template"`
	VariableRepresentation string               `json:"variableRepresentation"`
	Mapping                []IriTemplateMapping `json:"mapping"`
}

type IriTemplateMapping struct {
	Type     string `json:"@type"`
	Variable string `json:"variable"`
	Property string `json:"property"`
	Required bool   `json:"required"`
}

// ContextDocument describes the Message vocabulary.
type ContextDocument struct {
	Context map[string]string `json:"@context"`
}

func newCollection(messages []*message.Message, total int64, query url.Values, page message.Page) Collection {
	return Collection{
		Context:    messageContextIRI,
		ID:         messagesIRI,
		Type:       "Collection",
		TotalItems: total,
		Member: lo.Map(messages, func(m *message.Message, _ int) Member {
			return Member{
				Type:        "Message",
				ID:          m.ID,
				Title:       m.Title,
				Body:        m.Body,
				CreatedDate: m.CreatedDate,
				UpdatedDate: m.UpdatedDate,
			}
		}),
		View:   newPartialView(total, query, page),
		Search: messageSearch(),
	}
}

// newPartialView returns nil when every item fits on the first page.
func newPartialView(total int64, query url.Values, page message.Page) *PartialView {
	last := page.LastPage(total)
	current := max(page.Number, 1)
	if last <= 1 && current == 1 {
		return nil
	}

	link := func(n int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return messagesIRI + "?" + q.Encode()
	}

	view := &PartialView{
		ID:    link(current),
		Type:  "PartialCollectionView",
		First: link(1),
		Last:  link(last),
	}
	if current > 1 {
		view.Previous = link(current - 1)
	}
	if current < last {
		view.Next = link(current + 1)
	}
	return view
}

func messageSearch() IriTemplate {
	return IriTemplate{
		Type:                   "IriTemplate",
		Template:               messagesIRI + "{?id,title}",
		VariableRepresentation: "BasicRepresentation",
		Mapping: lo.Map([]string{"id", "title"}, func(v string, _ int) IriTemplateMapping {
			return IriTemplateMapping{Type: "IriTemplateMapping", Variable: v, Property: v}
		}),
	}
}

func messageContext() ContextDocument {
	return ContextDocument{Context: map[string]string{
		"@vocab":      docsIRI + "#",
		"hydra":       "http://www.w3.org/ns/hydra/core#",
		"title":       "Message/title",
		"body":        "Message/body",
		"createdDate": "Message/createdDate",
		"updatedDate": "Message/updatedDate",
	}}
}
