package store

import (
	"context"
	"errors"
	"time"

	"stagelink/api/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventStore struct {
	objects *ObjectStore
}

func NewEventStore(objects *ObjectStore) *EventStore {
	return &EventStore{objects: objects}
}

func eventKey(id string) string {
	return "events/" + id + ".json"
}

func (r *EventStore) GetByID(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	if err := r.objects.GetJSON(ctx, eventKey(id), &event); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (r *EventStore) Put(ctx context.Context, event models.Event) error {
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	return r.objects.PutJSON(ctx, eventKey(event.ID), event)
}

func (r *EventStore) List(ctx context.Context) ([]models.Event, error) {
	keys, err := r.objects.ListKeys(ctx, "events/")
	if err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(keys))
	for _, key := range keys {
		var event models.Event
		if err := r.objects.GetJSON(ctx, key, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
