// Package ingest orchestrates a single product submission: field
// validation, image commit, catalog insert, and publish, with
// compensating cleanup on failure.
//
// Side effects are strictly ordered: blob commit happens-before store
// insert happens-before publish. A subscriber can never observe a
// product whose image or row does not yet durably exist, and no
// failure path leaves an orphaned blob behind.
package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/kasuwa/server/internal/blob"
	"github.com/kasuwa/server/internal/catalog"
)

// Submission is a candidate product as received from a client.
type Submission struct {
	Name        string  `validate:"required"`
	Description string
	Price       float64 `validate:"gte=0"`
	Contact     string  `validate:"required"`
}

// Publisher receives the canonical product after a successful insert.
// Satisfied by *live.Feed.
type Publisher interface {
	Publish(p catalog.Product)
}

// Pipeline validates and persists submissions.
type Pipeline struct {
	store    catalog.Store
	blobs    blob.Store
	feed     Publisher
	validate *validator.Validate
}

// NewPipeline wires a pipeline over its collaborators.
func NewPipeline(store catalog.Store, blobs blob.Store, feed Publisher) *Pipeline {
	return &Pipeline{
		store:    store,
		blobs:    blobs,
		feed:     feed,
		validate: validator.New(),
	}
}

// Submit runs one submission through the pipeline. image is nil when
// no file was attached.
//
// On success the canonical product (with assigned ID, CreatedAt, and
// resolved image URL) has been persisted and handed to the publisher.
// On failure a *Error describes the failing stage, and every durable
// side effect taken so far has been rolled back.
func (p *Pipeline) Submit(ctx context.Context, sub Submission, image io.Reader) (catalog.Product, error) {
	if err := p.checkFields(sub); err != nil {
		return catalog.Product{}, err
	}

	var imageRef *string
	var blobRef string
	if image != nil {
		ref, err := p.blobs.Save(ctx, image)
		if err != nil {
			return catalog.Product{}, mapBlobError(err)
		}
		blobRef = ref
		url := p.blobs.URL(ref)
		imageRef = &url
	}

	product, err := p.store.Insert(ctx, catalog.NewProduct{
		Name:        sub.Name,
		Description: sub.Description,
		Price:       sub.Price,
		ImageRef:    imageRef,
		Contact:     sub.Contact,
	})
	if err != nil {
		// The blob was committed but the row was not: roll the blob
		// back so no orphan remains.
		if blobRef != "" {
			if rerr := p.blobs.Remove(ctx, blobRef); rerr != nil {
				slog.Error("blob rollback failed", "ref", blobRef, "error", rerr)
			}
		}
		return catalog.Product{}, persistenceError("failed to save product", err)
	}

	p.feed.Publish(product)

	slog.Info("product ingested",
		"product_id", product.ID,
		"name", product.Name,
		"has_image", imageRef != nil,
	)
	return product, nil
}

func (p *Pipeline) checkFields(sub Submission) error {
	err := p.validate.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return validationError(CodeInvalidField, "invalid submission")
	}

	// Report the first failing field with its support code.
	switch fe := verrs[0]; fe.Field() {
	case "Name":
		return validationError(CodeMissingName, "name is required")
	case "Contact":
		return validationError(CodeMissingContact, "contact is required")
	case "Price":
		return validationError(CodeNegativePrice, "price must not be negative")
	default:
		return validationError(CodeInvalidField, "invalid field: "+fe.Field())
	}
}

func mapBlobError(err error) *Error {
	switch {
	case errors.Is(err, blob.ErrUnsupportedType):
		return uploadError(CodeUnsupportedType, "image type not supported", err)
	case errors.Is(err, blob.ErrTooLarge):
		return uploadError(CodeImageTooLarge, "image exceeds size limit", err)
	default:
		return uploadError(CodeBlobWrite, "failed to store image", err)
	}
}
