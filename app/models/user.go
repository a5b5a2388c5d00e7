package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// DefaultCredibility is the starting credibility score for new members.
const DefaultCredibility = 50

// AdminCredibility is the effective credibility of admin accounts, regardless
// of what the stored score says.
const AdminCredibility = 100

// TrustedCredibility is the minimum score for high-clearance actions such as
// confirming a report as legitimate.
const TrustedCredibility = 75

type User struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	Username           string            `gorm:"uniqueIndex;type:varchar(150)" json:"username" validate:"required,min=3,max=150"`
	Email              string            `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password           string            `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role               string            `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status             string            `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	Bio                string            `gorm:"type:text;default:null" json:"bio" validate:"max=1000"`
	AvatarURL          string            `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"max=255"`
	SocialLinks        map[string]string `gorm:"serializer:json" json:"social_links,omitempty"`
	XP                 int               `gorm:"default:0" json:"xp"`
	Level              int               `gorm:"default:1" json:"level"`
	CredibilityScore   int               `gorm:"default:50" json:"credibility_score"`
	ProfileCompletedAt *time.Time        `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt        *time.Time        `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(username string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:         username,
		Email:            email,
		Password:         pw,
		Role:             ROLE_USER,
		Status:           STATUS_ACTIVE,
		Level:            1,
		CredibilityScore: DefaultCredibility,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// EffectiveCredibility returns the credibility score used for clearance
// decisions. Admins are always treated as maximum credibility; the stored
// score is never consulted for them.
func (u *User) EffectiveCredibility() int {
	if u.IsAdmin() {
		return AdminCredibility
	}
	return u.CredibilityScore
}

// HasCompletedProfile reports whether the user already earned the one-time
// profile completion bonus.
func (u *User) HasCompletedProfile() bool {
	return u.ProfileCompletedAt != nil
}
