package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"bolo-service/internal/database"
)

// TokenRepository persists the single OAuth credential row per provider.
type TokenRepository struct {
	db database.DBTX
}

func NewTokenRepository(db database.DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

// Get loads the credential row for a provider.
func (r *TokenRepository) Get(ctx context.Context, provider string) (*OAuthCredential, error) {
	q := `SELECT provider, access_token, refresh_token, expiry, updated_at
	      FROM oauth_credentials WHERE provider=$1`
	var c OAuthCredential
	err := r.db.QueryRow(ctx, q, provider).Scan(
		&c.Provider, &c.AccessToken, &c.RefreshToken, &c.Expiry, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Upsert writes the credential row. A stored refresh token is never replaced
// with an empty one: token exchanges on re-consent may omit refresh_token and
// losing the original would strand the connection.
func (r *TokenRepository) Upsert(ctx context.Context, c *OAuthCredential) error {
	q := `INSERT INTO oauth_credentials (provider, access_token, refresh_token, expiry, updated_at)
	      VALUES ($1,$2,$3,$4,now())
	      ON CONFLICT (provider) DO UPDATE SET
	          access_token = EXCLUDED.access_token,
	          refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), oauth_credentials.refresh_token),
	          expiry = EXCLUDED.expiry,
	          updated_at = now()`
	_, err := r.db.Exec(ctx, q, c.Provider, c.AccessToken, c.RefreshToken, c.Expiry)
	return err
}
