package model

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned when an identifier is not a 24-character hex object id.
var ErrInvalidID = errors.New("invalid overlay id")

// Overlay fields other than ID are free-form JSON values; nil renders as null.
type Overlay struct {
	ID      string `json:"_id"`
	Type    any    `json:"type"`
	Content any    `json:"content"`
	X       any    `json:"x"`
	Y       any    `json:"y"`
	Width   any    `json:"width"`
	Height  any    `json:"height"`
}

// Request types are built from decoded bodies with NewCreateRequest and
// NewUpdateRequest, never unmarshalled directly: keys match case-sensitively.
type CreateOverlayRequest struct {
	Type    any
	Content any
	X       any
	Y       any
	Width   any
	Height  any
}

// UpdateOverlayRequest has no Type: an overlay keeps the type it was created with.
type UpdateOverlayRequest struct {
	X       any
	Y       any
	Width   any
	Height  any
	Content any
}

func NewCreateRequest(body map[string]any) CreateOverlayRequest {
	return CreateOverlayRequest{
		Type:    body["type"],
		Content: body["content"],
		X:       body["x"],
		Y:       body["y"],
		Width:   body["width"],
		Height:  body["height"],
	}
}

func NewUpdateRequest(body map[string]any) UpdateOverlayRequest {
	return UpdateOverlayRequest{
		X:       body["x"],
		Y:       body["y"],
		Width:   body["width"],
		Height:  body["height"],
		Content: body["content"],
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

// NewOverlay builds the record to insert. ID is left for the store to assign.
func NewOverlay(req CreateOverlayRequest) Overlay {
	return Overlay{
		Type:    req.Type,
		Content: req.Content,
		X:       req.X,
		Y:       req.Y,
		Width:   req.Width,
		Height:  req.Height,
	}
}

// Fields returns the replacement set for an update, nil values included.
func (r UpdateOverlayRequest) Fields() map[string]any {
	return map[string]any{
		"x":       r.X,
		"y":       r.Y,
		"width":   r.Width,
		"height":  r.Height,
		"content": r.Content,
	}
}

// Apply overwrites the updatable fields of o.
func (r UpdateOverlayRequest) Apply(o *Overlay) {
	o.X = r.X
	o.Y = r.Y
	o.Width = r.Width
	o.Height = r.Height
	o.Content = r.Content
}

func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func NewID() string {
	return primitive.NewObjectID().Hex()
}
