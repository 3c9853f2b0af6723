package helpers

import (
	"time"

	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

func ParserTokenUnverified(tokenStr string) (jwt.MapClaims, bool) {
	var p jwt.Parser
	token, _, ok := p.ParseUnverified(tokenStr, jwt.MapClaims{})
	if ok != nil {
		return nil, false
	}
	tokendata, _ := token.Claims.(jwt.MapClaims)
	return tokendata, true
}

func FormatEpochMilli(ms int64) string {
	return time.UnixMilli(ms).Format("02-01-2006 15:04")
}

func ContainsString(a []string, x string) bool {
	for _, n := range a {
		if x == n {
			return true
		}
	}
	return false
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func AuthenticateHashedPassword(hashed string, inputPassword string) bool {
	configPasswordHashBytes := []byte(hashed)
	inputPasswordBytes := []byte(inputPassword)
	err := bcrypt.CompareHashAndPassword(configPasswordHashBytes, inputPasswordBytes)
	if err != nil {
		return false
	}
	return true
}

func GenerateToken(admin *models.AdminUser, jwtSecret string) (string, error) {
	claims := struct {
		User map[string]interface{} `json:"u"`
		jwt.StandardClaims
	}{
		map[string]interface{}{
			"i":     admin.ID,
			"email": admin.Email,
			"name":  admin.Name,
			"admin": true,
		},
		jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		return "", err
	}

	return token, nil
}
