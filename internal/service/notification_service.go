package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

// NotificationService delivers in-app notifications / Gère les notifications applicatives
type NotificationService struct {
	repo ports.Repository[domain.Notification]
	now  func() time.Time
}

// NewNotificationService creates notification service / Crée le service de notifications
func NewNotificationService(repo ports.Repository[domain.Notification]) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

// Send stamps and persists a notification / Horodate et enregistre une notification
func (s *NotificationService) Send(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if isBlank(n.Message) {
		return nil, domain.InvalidArgument("message requis")
	}
	if n.TypeNotification == "" {
		n.TypeNotification = domain.NotificationInfo
	}

	now := s.now()
	n.ID = ""
	n.DateEnvoi = now
	n.DateCreation = now
	n.StatutLecture = false

	saved, err := s.repo.Save(ctx, n)
	if err != nil {
		slog.Error("failed to save notification", "err", err)
		return nil, err
	}
	return saved, nil
}

// ForUser lists notifications addressed to a citizen or technician id / Liste les notifications d'un utilisateur
func (s *NotificationService) ForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	asCitoyen, err := s.repo.FindBy(ctx, "citoyenId", userID)
	if err != nil {
		return nil, err
	}
	asTechnicien, err := s.repo.FindBy(ctx, "technicienId", userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(asCitoyen))
	out := make([]*domain.Notification, 0, len(asCitoyen)+len(asTechnicien))
	for _, n := range append(asCitoyen, asTechnicien...) {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, nil
}

// GetAll lists every notification / Liste toutes les notifications
func (s *NotificationService) GetAll(ctx context.Context) ([]*domain.Notification, error) {
	return s.repo.GetAll(ctx)
}

func (s *NotificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return s.repo.Get(ctx, id)
}

// MarkAsRead flags a notification as read / Marque une notification comme lue
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.StatutLecture = true
	return s.repo.Save(ctx, n)
}
