package content

import (
	"context"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// SubmitContact stores a message from the public contact form.
func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (*models.Contact, error) {
	if err := s.validate.Validate(&in); err != nil {
		return nil, err
	}
	c, err := s.stores.Contacts.Create(ctx, in.fields())
	if err != nil {
		return nil, err
	}
	s.changed(ctx, EntityContacts)
	return c, nil
}

func (s *Service) MarkContactRead(ctx context.Context, id uint) (*models.Contact, error) {
	c, err := s.stores.Contacts.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, EntityContacts)
	return c, nil
}

func (s *Service) DeleteContact(ctx context.Context, id uint) error {
	if _, err := s.stores.Contacts.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityContacts)
	return nil
}
