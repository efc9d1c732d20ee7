package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/annotator/internal/dictionary"
	"github.com/mrlokans/annotator/internal/entities"
	"github.com/mrlokans/annotator/internal/logging"
)

// AnnotationEnricher is the storage the enrichment tasks need.
type AnnotationEnricher interface {
	GetAnnotationByID(id uint) (*entities.Annotation, error)
	UpdateAnnotation(a *entities.Annotation) error
	GetPendingAnnotations(limit int) ([]entities.Annotation, error)
}

// EnrichAnnotationTask fills the tooltip of one annotation from the dictionary.
type EnrichAnnotationTask struct {
	AnnotationID uint `json:"annotation_id"`
}

func (t EnrichAnnotationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_annotation",
		MaxAttempts: lookupMaxAttempts,
		Backoff:     lookupBackoff,
		Timeout:     lookupTimeout,
		Retention:   retention(),
	}
}

// ApplyLookup copies dictionary data into the tooltip fields that are still
// empty. Text the reader typed is never overwritten.
func ApplyLookup(a *entities.Annotation, result *dictionary.LookupResult) {
	if a.Phonetic == "" {
		a.Phonetic = result.Phonetic
	}
	if a.Meaning == "" {
		a.Meaning = result.Meaning
	}
	if a.Example == "" {
		a.Example = result.Example
	}
	a.LookupStatus = entities.LookupEnriched
}

// enrich looks up one annotation and stores the outcome. A word the
// dictionary does not know is a final state, not an error.
func enrich(ctx context.Context, store AnnotationEnricher, client dictionary.Client, a *entities.Annotation) error {
	result, err := client.Lookup(ctx, a.Word)
	switch {
	case errors.Is(err, dictionary.ErrNotFound):
		a.LookupStatus = entities.LookupNotFound
		return store.UpdateAnnotation(a)
	case err != nil:
		a.LookupStatus = entities.LookupFailed
		if updateErr := store.UpdateAnnotation(a); updateErr != nil {
			return errors.Join(err, updateErr)
		}
		return fmt.Errorf("lookup %q: %w", a.Word, err)
	}

	ApplyLookup(a, result)
	return store.UpdateAnnotation(a)
}

// EnrichAnnotationProcessor creates a processor for annotation enrichment.
func EnrichAnnotationProcessor(store AnnotationEnricher, client dictionary.Client) backlite.QueueProcessor[EnrichAnnotationTask] {
	log := logging.Component("tasks")
	return func(ctx context.Context, task EnrichAnnotationTask) error {
		a, err := store.GetAnnotationByID(task.AnnotationID)
		if err != nil {
			return fmt.Errorf("get annotation %d: %w", task.AnnotationID, err)
		}
		if a.LookupStatus != entities.LookupPending && a.LookupStatus != entities.LookupFailed {
			return nil
		}

		if err := enrich(ctx, store, client, a); err != nil {
			return err
		}
		log.Info().Uint("annotation_id", a.ID).Str("word", a.Word).Str("status", string(a.LookupStatus)).Msg("annotation enriched")
		return nil
	}
}

func NewEnrichAnnotationQueue(store AnnotationEnricher, client dictionary.Client) backlite.Queue {
	return backlite.NewQueue(EnrichAnnotationProcessor(store, client))
}

// EnrichPendingAnnotationsTask retries every annotation still waiting for a lookup.
type EnrichPendingAnnotationsTask struct{}

func (t EnrichPendingAnnotationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_pending_annotations",
		MaxAttempts: 1,
		Timeout:     sweepTimeout,
		Retention:   retention(),
	}
}

func EnrichPendingAnnotationsProcessor(store AnnotationEnricher, client dictionary.Client) backlite.QueueProcessor[EnrichPendingAnnotationsTask] {
	log := logging.Component("tasks")
	return func(ctx context.Context, task EnrichPendingAnnotationsTask) error {
		pending, err := store.GetPendingAnnotations(0)
		if err != nil {
			return fmt.Errorf("get pending annotations: %w", err)
		}

		var enriched, failed int
		for i := range pending {
			if err := ctx.Err(); err != nil {
				log.Warn().Int("enriched", enriched).Int("failed", failed).Msg("pending sweep cancelled")
				return err
			}
			if err := enrich(ctx, store, client, &pending[i]); err != nil {
				failed++
				continue
			}
			enriched++
		}

		log.Info().Int("enriched", enriched).Int("failed", failed).Int("total", len(pending)).Msg("pending sweep finished")
		return nil
	}
}

func NewEnrichPendingAnnotationsQueue(store AnnotationEnricher, client dictionary.Client) backlite.Queue {
	return backlite.NewQueue(EnrichPendingAnnotationsProcessor(store, client))
}
