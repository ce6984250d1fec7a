package repositories

import (
	"kedai_pos_backend/internal/models"
)

// SettingRepository reads and writes the scalar settings keys.
type SettingRepository interface {
	// GetTheme returns ThemeLight for an absent or unrecognised stored value.
	GetTheme(ex Executor) (string, error)
	SetTheme(tx Writer, theme string) error
	// GetBrandName returns DefaultBrandName when none is stored.
	GetBrandName(ex Executor) (string, error)
	SetBrandName(tx Writer, name string) error
	GetPINHash(ex Executor) (string, error)
	SetPINHash(tx Writer, hash string) error
}

type settingRepository struct{}

func NewSettingRepository() SettingRepository {
	return &settingRepository{}
}

func (r *settingRepository) getString(ex Executor, key, fallback string) (string, error) {
	var v string
	found, err := ex.Get(key, &v)
	if err != nil {
		return "", err
	}
	if !found || v == "" {
		return fallback, nil
	}
	return v, nil
}

func (r *settingRepository) GetTheme(ex Executor) (string, error) {
	theme, err := r.getString(ex, KeyTheme, models.ThemeLight)
	if err != nil {
		return "", err
	}
	if theme != models.ThemeDark {
		return models.ThemeLight, nil
	}
	return theme, nil
}

func (r *settingRepository) SetTheme(tx Writer, theme string) error {
	return tx.Put(KeyTheme, theme)
}

func (r *settingRepository) GetBrandName(ex Executor) (string, error) {
	return r.getString(ex, KeyBrandName, models.DefaultBrandName)
}

func (r *settingRepository) SetBrandName(tx Writer, name string) error {
	return tx.Put(KeyBrandName, name)
}

func (r *settingRepository) GetPINHash(ex Executor) (string, error) {
	return r.getString(ex, KeyOperatorPINHash, "")
}

func (r *settingRepository) SetPINHash(tx Writer, hash string) error {
	return tx.Put(KeyOperatorPINHash, hash)
}
