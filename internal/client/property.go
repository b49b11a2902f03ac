package client

import (
	"context"
	"strings"

	"github.com/Iggy502/booking-web-sub000/internal/entity"
)

// GetById returns a single property
func (c *Client) GetById(ctx context.Context, id string) (*entity.Property, error) {
	var result entity.Property
	if err := c.get(ctx, "/properties/"+id, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByIds returns the properties matching the given ids
func (c *Client) ListByIds(ctx context.Context, ids []string) ([]entity.Property, error) {
	params := map[string]string{"ids": strings.Join(ids, ",")}
	var result []entity.Property
	if err := c.get(ctx, "/properties", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Search returns properties matching the filters. Date filtering happens
// client-side through the availability filter.
func (c *Client) Search(ctx context.Context, req *PropertySearchRequest) ([]entity.Property, error) {
	var result []entity.Property
	if err := c.post(ctx, "/properties/search", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateProperty submits a new owned property
func (c *Client) CreateProperty(ctx context.Context, req *CreatePropertyRequest) (*entity.Property, error) {
	var result entity.Property
	if err := c.post(ctx, "/properties", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProperty edits an owned property
func (c *Client) UpdateProperty(ctx context.Context, id string, req *UpdatePropertyRequest) (*entity.Property, error) {
	var result entity.Property
	if err := c.put(ctx, "/properties/"+id, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
