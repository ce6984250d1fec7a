package models

// Theme values. Anything else read from storage is treated as ThemeLight.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultBrandName = "Kedai Saya"
)

// Settings is the operator-facing application configuration.
type Settings struct {
	Theme     string `json:"theme"`
	BrandName string `json:"brand_name"`
}
