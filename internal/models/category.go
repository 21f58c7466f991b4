package models

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category labels transactions and recurrence rules. Transactions reference
// categories by name, not by ID, mirroring how users think about them.
type Category struct {
	DefaultModel
	OwnerID uuid.UUID `gorm:"uniqueIndex:category_owner_name;not null"`
	Name    string    `gorm:"uniqueIndex:category_owner_name;not null"`
	Color   string    `gorm:"not null"`
}

var (
	ErrCategoryNameNotUnique = errors.New("a category with this name already exists")
	ErrCategoryNameRequired  = errors.New("the category name must be set")
	ErrCategoryInUse         = errors.New("this category is referenced by transactions or recurrence rules and cannot be deleted")
	ErrCategoryNotFound      = errors.New("this category does not exist, select a valid category")
)

// GoalCategoryName is the conventional category for transactions generated
// from goal contributions. It is auto-created when first needed.
const GoalCategoryName = "Metas"

// palette contains the colors assigned to categories without an explicit one.
var palette = []string{
	"#22c55e", "#ef4444", "#3b82f6", "#a855f7", "#f59e0b", "#10b981",
	"#f43f5e", "#8b5cf6", "#14b8a6", "#eab308", "#06b6d4", "#84cc16",
}

// colorNames maps the accepted Portuguese color names to hex values.
var colorNames = map[string]string{
	"azul":       "#3b82f6",
	"vermelho":   "#ef4444",
	"verde":      "#22c55e",
	"amarelo":    "#eab308",
	"roxo":       "#a855f7",
	"laranja":    "#f59e0b",
	"ciano":      "#06b6d4",
	"turquesa":   "#14b8a6",
	"verde-agua": "#14b8a6",
	"verdeagua":  "#14b8a6",
	"rosa":       "#f43f5e",
	"lima":       "#84cc16",
	"preto":      "#111827",
	"cinza":      "#64748b",
	"branco":     "#e5e7eb",
}

var hexColorPattern = regexp.MustCompile("^#[0-9A-Fa-f]{6}$")

// diacriticReplacer strips the accents occurring in Portuguese color names.
var diacriticReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

func normalizeColorName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = diacriticReplacer.Replace(s)
	return strings.Join(strings.Fields(s), "")
}

// pickColor deterministically assigns a palette color based on the name.
func pickColor(name string) string {
	var h uint32
	for _, c := range []byte(name) {
		h = h*31 + uint32(c)
	}

	return palette[h%uint32(len(palette))]
}

// ParseColor resolves a color input to a hex value. An empty input picks a
// palette color based on the category name, otherwise the input must be a
// "#RRGGBB" value or one of the known Portuguese color names.
func ParseColor(input, name string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return pickColor(name), nil
	}

	if hexColorPattern.MatchString(raw) {
		return raw, nil
	}

	if named, ok := colorNames[normalizeColorName(raw)]; ok {
		return named, nil
	}

	names := make([]string, 0, len(colorNames))
	for n := range colorNames {
		names = append(names, n)
	}
	sort.Strings(names)

	return "", fmt.Errorf("unknown color, use a #hex value or one of: %s", strings.Join(names, ", "))
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrCategoryNameRequired
	}

	if c.Color == "" {
		c.Color = pickColor(c.Name)
	}

	return nil
}

// CategoryExists reports whether the owner has a category with this name.
func CategoryExists(db *gorm.DB, ownerID uuid.UUID, name string) (bool, error) {
	var count int64
	err := db.Model(&Category{}).
		Where("owner_id = ? AND name = ?", ownerID, strings.TrimSpace(name)).
		Count(&count).Error

	return count > 0, err
}

// EnsureCategory creates the category with an automatic color if the owner
// does not have it yet.
func EnsureCategory(db *gorm.DB, ownerID uuid.UUID, name string) error {
	exists, err := CategoryExists(db, ownerID, name)
	if err != nil || exists {
		return err
	}

	return db.Create(&Category{OwnerID: ownerID, Name: name}).Error
}
