package github

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// SealSecret encrypts value against a repository public key using an
// anonymous sealed box, as required by the actions secrets API. key is
// the base64 public key from the API; the result is base64 too.
func SealSecret(value, key string) (string, error) {
	rawKey, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("decode public key: %w", err)
	}
	if len(rawKey) != 32 {
		return "", fmt.Errorf("public key is %d bytes, want 32", len(rawKey))
	}
	var pubKey [32]byte
	copy(pubKey[:], rawKey)

	sealed, err := box.SealAnonymous(nil, []byte(value), &pubKey, rand.Reader)
	if err != nil {
		return "", fmt.Errorf("seal secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// PutActionsSecret uploads an encrypted actions secret to
// owner/repo. The repository public key is fetched per call.
func (c *Client) PutActionsSecret(ctx context.Context, owner, repo, name, value string) error {
	keyResp, err := c.Call(ctx, "GET", fmt.Sprintf("repos/%s/%s/actions/secrets/public-key", owner, repo), nil)
	if err != nil {
		return err
	}
	keyID, err := strField(keyResp, "key_id")
	if err != nil {
		return err
	}
	key, err := strField(keyResp, "key")
	if err != nil {
		return err
	}

	sealed, err := SealSecret(value, key)
	if err != nil {
		return apiError(err)
	}

	_, err = c.Call(ctx, "PUT", fmt.Sprintf("repos/%s/%s/actions/secrets/%s", owner, repo, name), map[string]any{
		"encrypted_value": sealed,
		"key_id":          keyID,
	})
	return err
}
