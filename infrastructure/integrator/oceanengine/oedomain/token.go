package oedomain

// Token sources recorded in the local token cache.
const (
	TokenSourceRefresh  = "refresh_token"
	TokenSourceAuthCode = "auth_code"
)

// TokenData is the payload of both oauth2 grant endpoints. The refresh
// expiry field name has drifted across platform versions, so both spellings
// are accepted.
type TokenData struct {
	AccessToken             string `json:"access_token"`
	ExpiresIn               int64  `json:"expires_in"`
	RefreshToken            string `json:"refresh_token"`
	RefreshTokenExpiresIn   int64  `json:"refresh_token_expires_in"`
	RefreshTokenExpiresAlt  int64  `json:"refresh_token_expires"`
}

// RefreshExpiresIn returns whichever refresh expiry field the platform set.
func (t TokenData) RefreshExpiresIn() int64 {
	if t.RefreshTokenExpiresIn > 0 {
		return t.RefreshTokenExpiresIn
	}
	return t.RefreshTokenExpiresAlt
}
