package hub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultNodeName    = "UNKNOWN-NODE"
	defaultNodeService = "default"
)

// NodeService is the stored record for one (node, service) pair.
type NodeService struct {
	URL      string          `json:"url"`
	LastSeen string          `json:"last_seen"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// NodeRecord is the flattened listing row served on the index page.
type NodeRecord struct {
	Node     string `json:"node"`
	Service  string `json:"service"`
	URL      string `json:"url"`
	LastSeen string `json:"last_seen"`
}

// NodeRegistry is the durable directory of registered peer nodes, persisted
// as a single JSON file replaced atomically on every upsert.
type NodeRegistry struct {
	path string

	mu    sync.Mutex
	nodes map[string]map[string]NodeService
}

// OpenNodeRegistry loads the registry file, tolerating its absence.
func OpenNodeRegistry(path string) (*NodeRegistry, error) {
	r := &NodeRegistry{
		path:  path,
		nodes: make(map[string]map[string]NodeService),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read node registry %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &r.nodes); err != nil {
		return nil, fmt.Errorf("decode node registry %s: %w", path, err)
	}
	if r.nodes == nil {
		r.nodes = make(map[string]map[string]NodeService)
	}
	return r, nil
}

// Register upserts one (node, service) entry with a fresh last-seen stamp and
// persists the registry. Empty name and service fall back to defaults.
func (r *NodeRegistry) Register(name, service, url string, raw json.RawMessage) (NodeRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultNodeName
	}
	service = strings.TrimSpace(service)
	if service == "" {
		service = defaultNodeService
	}
	rec := NodeRecord{
		Node:     name,
		Service:  service,
		URL:      url,
		LastSeen: Timestamp(time.Now()),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	services, ok := r.nodes[name]
	if !ok {
		services = make(map[string]NodeService)
		r.nodes[name] = services
	}
	services[service] = NodeService{URL: url, LastSeen: rec.LastSeen, Raw: raw}
	if err := r.saveLocked(); err != nil {
		return rec, err
	}
	return rec, nil
}

// List returns every registered service, sorted by node then service name.
func (r *NodeRegistry) List() []NodeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []NodeRecord
	for name, services := range r.nodes {
		for service, info := range services {
			out = append(out, NodeRecord{
				Node:     name,
				Service:  service,
				URL:      info.URL,
				LastSeen: info.LastSeen,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Node != out[j].Node {
			return out[i].Node < out[j].Node
		}
		return out[i].Service < out[j].Service
	})
	return out
}

func (r *NodeRegistry) saveLocked() error {
	data, err := json.MarshalIndent(r.nodes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode node registry: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create node registry dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".nodes-*.json")
	if err != nil {
		return fmt.Errorf("stage node registry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write node registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close node registry: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace node registry: %w", err)
	}
	return nil
}
