package domain

// Document is implemented by every aggregate persisted in the document store / Implémenté par chaque agrégat persisté
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
}

// Collection names / Noms des collections
const (
	CollectionInterventions     = "interventions"
	CollectionEquipements       = "equipements"
	CollectionRessources        = "ressources"
	CollectionServicesMunicipal = "services_municipaux"
	CollectionSignalements      = "signalements"
	CollectionNotifications     = "notifications"
	CollectionUsers             = "users"
)
