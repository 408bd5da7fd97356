// internal/controller/router.go
package controller

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Controllers bundles the HTTP controllers the router mounts.
type Controllers struct {
	Health    *HealthController
	Contacts  *ContactController
	Media     *MediaController
	Campaigns *CampaignController
	Messages  *MessageController
	Webhooks  *WebhookController
	Settings  *SettingsController
	Stats     *StatsController
}

// NewRouter assembles the chi router carrying the full /api surface.
func NewRouter(c Controllers, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", c.Health.Root)
		r.Get("/health", c.Health.Health)

		r.Post("/contacts", c.Contacts.CreateContact)
		r.Get("/contacts", c.Contacts.ListContacts)
		r.Post("/contacts/bulk", c.Contacts.BulkImportContacts)
		r.Delete("/contacts/{phoneNumber}", c.Contacts.DeleteContact)

		r.Post("/media/upload", c.Media.UploadMedia)
		r.Get("/media/{filename}", c.Media.ServeMedia)

		r.Post("/campaigns", c.Campaigns.CreateCampaign)
		r.Get("/campaigns", c.Campaigns.ListCampaigns)
		r.Get("/campaigns/{id}", c.Campaigns.GetCampaign)
		r.Get("/campaigns/{id}/status", c.Campaigns.GetCampaignStatus)

		r.Post("/messages/send", c.Messages.SendMessage)
		r.Post("/messages/bulk", c.Messages.SendBulkMessages)
		r.Get("/messages", c.Messages.ListMessages)

		r.Post("/settings/provider", c.Settings.ConfigureProvider)
		r.Get("/settings/providers", c.Settings.ListProviders)

		r.Get("/stats/dashboard", c.Stats.Dashboard)

		r.Post("/webhook/status", c.Webhooks.StatusCallback)
	})

	return r
}
