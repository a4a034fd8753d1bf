// Copyright (c) 2025 The ZEDD Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fernet/fernet-go"
)

// Zenodo access tokens for both repositories
type Tokens struct {
	Production string `json:"production,omitempty"`
	Sandbox    string `json:"sandbox,omitempty"`
}

// returns the token for the selected repository
func (t Tokens) For(sandbox bool) string {
	if sandbox {
		return t.Sandbox
	}
	return t.Production
}

const (
	tokenFileName = "tokens.dat"
	keyFileName   = "zedd.key"
)

// Loads access tokens from the given directory, decrypting them with the key
// kept beside them. A missing token file is not an error; empty tokens are
// returned.
func LoadTokens(dir string) (Tokens, error) {
	var tokens Tokens
	encrypted, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return tokens, nil
		}
		return tokens, err
	}

	key, err := readKey(dir)
	if err != nil {
		return tokens, err
	}

	// a TTL of 0 disables token expiry; the file is only as old as the
	// last SaveTokens call
	plaintext := fernet.VerifyAndDecrypt(encrypted, 0, []*fernet.Key{key})
	if plaintext == nil {
		return tokens, &TokenDecryptionError{}
	}
	if err := json.Unmarshal(plaintext, &tokens); err != nil {
		return Tokens{}, &TokenDecryptionError{}
	}
	return tokens, nil
}

// saves access tokens to the given directory, encrypting them with the key
// kept beside them (generated on first save)
func SaveTokens(dir string, tokens Tokens) error {
	key, err := readKey(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		key, err = generateKey(dir)
		if err != nil {
			return err
		}
	}

	plaintext, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	encrypted, err := fernet.EncryptAndSign(plaintext, key)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, tokenFileName), encrypted, 0600)
}

func readKey(dir string) (*fernet.Key, error) {
	encoded, err := os.ReadFile(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}
	key, err := fernet.DecodeKey(string(encoded))
	if err != nil {
		return nil, &TokenDecryptionError{}
	}
	return key, nil
}

func generateKey(dir string) (*fernet.Key, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return nil, err
	}
	err := os.WriteFile(filepath.Join(dir, keyFileName), []byte(key.Encode()), 0600)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
