package port

// IdentityGenerator выдает внутренние идентификаторы и URL-безопасные слаги
type IdentityGenerator interface {
	NewID() string
	Slugify(title string) string
}
