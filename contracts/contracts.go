/*
Package contracts embeds descriptors of the resolvers and provides access to
them.

Every resolver directory holds config.yml with deployment defaults and
manifest.json describing the resolver interface in the Neo manifest format.
*/
package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"gopkg.in/yaml.v3"
)

const (
	publicKeyDir  = "publickey"
	serviceKeyDir = "servicekey"

	configName   = "config.yml"
	manifestName = "manifest.json"
)

// Config groups deployment defaults of a resolver.
type Config struct {
	// Name of the resolver, its address is derived from it.
	Name string `yaml:"name"`
	// SignatureTimeout is the initial validity period of mandates.
	SignatureTimeout time.Duration `yaml:"signatureTimeout"`
}

// Contract groups information about a resolver stored in the current package.
type Contract struct {
	Config   Config
	Manifest manifest.Manifest
}

var (
	//go:embed */config.yml */manifest.json
	_fs embed.FS

	errInvalidConfig   = errors.New("invalid config")
	errInvalidManifest = errors.New("invalid manifest")

	resolvers = []string{
		publicKeyDir,
		serviceKeyDir,
	}
)

// GetAll returns descriptors of all resolvers stored in the package.
func GetAll() ([]Contract, error) {
	return read(_fs, resolvers)
}

// GetPublicKeyResolver returns the descriptor of the public key resolver.
func GetPublicKeyResolver() (Contract, error) {
	return readContractFromDir(_fs, publicKeyDir)
}

// GetServiceKeyResolver returns the descriptor of the service key resolver.
func GetServiceKeyResolver() (Contract, error) {
	return readContractFromDir(_fs, serviceKeyDir)
}

// read same as GetAll but allows to override source fs.FS.
func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// Only embedded FS is supported now and it uses "/" even on Windows,
	// so filepath.Join() is not applicable.
	fConfig, err := _fs.Open(dir + "/" + configName)
	if err != nil {
		return c, fmt.Errorf("open config: %w", err)
	}
	defer fConfig.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	err = yaml.NewDecoder(fConfig).Decode(&c.Config)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	if c.Config.Name == "" {
		return c, fmt.Errorf("%w: missing name", errInvalidConfig)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}
	if c.Manifest.Name != c.Config.Name {
		return c, fmt.Errorf("%w: name %q differs from config %q", errInvalidManifest, c.Manifest.Name, c.Config.Name)
	}

	return c, nil
}
