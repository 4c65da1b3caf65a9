package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/google/uuid"
)

// document constrains PT to be *T and a domain.Document
type document[T any] interface {
	*T
	domain.Document
}

// Collection is a typed repository over one document collection / Repository typé sur une collection
type Collection[T any, PT document[T]] struct {
	store  ports.DocumentStore
	name   string
	entity string
}

// NewCollection creates typed collection / Crée une collection typée
func NewCollection[T any, PT document[T]](store ports.DocumentStore, name, entity string) *Collection[T, PT] {
	return &Collection[T, PT]{store: store, name: name, entity: entity}
}

// Get loads one entity, NotFound when absent / Charge une entité, NotFound si absente
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, domain.NotFound(c.entity, id)
		}
		return nil, domain.Internal("load "+c.entity, err)
	}
	return c.decode(raw)
}

// GetAll loads every entity / Charge toutes les entités
func (c *Collection[T, PT]) GetAll(ctx context.Context) ([]*T, error) {
	raws, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, domain.Internal("list "+c.entity, err)
	}
	return c.decodeAll(raws)
}

// FindBy loads entities whose field equals value / Charge les entités dont le champ vaut value
func (c *Collection[T, PT]) FindBy(ctx context.Context, field, value string) ([]*T, error) {
	raws, err := c.store.FindBy(ctx, c.name, field, value)
	if err != nil {
		if errors.Is(err, ErrInvalidField) {
			return nil, domain.InvalidArgument("champ de filtre invalide: %q", field)
		}
		return nil, domain.Internal("find "+c.entity, err)
	}
	return c.decodeAll(raws)
}

// Save upserts entity, generating an id when absent / Enregistre l'entité, génère un id si absent
func (c *Collection[T, PT]) Save(ctx context.Context, v *T) (*T, error) {
	doc := PT(v)
	if doc.DocumentID() == "" {
		doc.SetDocumentID(uuid.NewString())
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, domain.Internal("encode "+c.entity, err)
	}
	if err := c.store.Save(ctx, c.name, doc.DocumentID(), raw); err != nil {
		return nil, domain.Internal("save "+c.entity, err)
	}
	return v, nil
}

// DeleteByID removes entity / Supprime l'entité
func (c *Collection[T, PT]) DeleteByID(ctx context.Context, id string) error {
	if err := c.store.DeleteByID(ctx, c.name, id); err != nil {
		return domain.Internal("delete "+c.entity, err)
	}
	return nil
}

// ExistsByID checks presence / Vérifie la présence
func (c *Collection[T, PT]) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := c.store.ExistsByID(ctx, c.name, id)
	if err != nil {
		return false, domain.Internal("exists "+c.entity, err)
	}
	return ok, nil
}

func (c *Collection[T, PT]) decode(raw []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, domain.Internal(fmt.Sprintf("decode %s", c.entity), err)
	}
	return v, nil
}

func (c *Collection[T, PT]) decodeAll(raws [][]byte) ([]*T, error) {
	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		v, err := c.decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
