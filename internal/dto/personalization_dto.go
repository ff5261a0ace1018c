package dto

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

type ThemeDTO struct {
	Theme string `json:"theme" binding:"required,oneof=light dark system"`
}

type FavoritesDTO struct {
	TestIDs []uint `json:"test_ids"`
}

type GuestDTO struct {
	GuestID string `json:"guest_id"`
}
