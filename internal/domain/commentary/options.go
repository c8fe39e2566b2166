package commentary

// Option configures a Renderer. The second argument is the window size.
type Option func(*Renderer, *int)

// WithLanguage selects the catalog best matching a BCP 47 tag.
func WithLanguage(lang string) Option {
	return func(r *Renderer, _ *int) {
		r.catalog = CatalogFor(lang)
	}
}

// WithCatalog installs a custom catalog.
func WithCatalog(c *Catalog) Option {
	return func(r *Renderer, _ *int) {
		if c != nil {
			r.catalog = c
		}
	}
}

// WithRecent sets how many recently used templates are avoided.
func WithRecent(n int) Option {
	return func(_ *Renderer, size *int) {
		if n > 0 {
			*size = n
		}
	}
}
