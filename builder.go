package goTimelock

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
	"github.com/MrEthical07/goTimelock/permission"
)

// Builder assembles an [Engine]. A builder is single-use: Build seals it, so
// the aggregate state behind an engine is initialized exactly once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	schemas   []permission.FunctionSchema
	roles     []RoleSeed
	executors map[permission.Selector]Executor
	hooks     map[permission.Selector][]Hook
	whitelist TargetWhitelist
	auditSink AuditSink
	nonces    metatx.NonceStore

	built bool
}

// New creates a [Builder] with default configuration.
func New() *Builder {
	return &Builder{
		config:    defaultConfig(),
		executors: make(map[permission.Selector]Executor),
		hooks:     make(map[permission.Selector][]Hook),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client backing the terminal-record archive and the
// redis nonce store. Required when either is enabled in the config.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSchemas seeds the function schema registry.
func (b *Builder) WithSchemas(schemas ...permission.FunctionSchema) *Builder {
	b.schemas = append(b.schemas, schemas...)
	return b
}

// WithRoles seeds the role directory. After Build, roles change only through
// the governed batch workflow.
func (b *Builder) WithRoles(roles ...RoleSeed) *Builder {
	b.roles = append(b.roles, roles...)
	return b
}

// WithExecutor binds an execution selector to its executor.
func (b *Builder) WithExecutor(selector permission.Selector, exec Executor) *Builder {
	b.executors[selector] = exec
	return b
}

// WithHook appends a post-execution observer for an execution selector.
// Hooks run in registration order.
func (b *Builder) WithHook(selector permission.Selector, hook Hook) *Builder {
	b.hooks[selector] = append(b.hooks[selector], hook)
	return b
}

// WithWhitelist supplies the external target whitelist. Without one, every
// external target is denied.
func (b *Builder) WithWhitelist(w TargetWhitelist) *Builder {
	b.whitelist = w
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithNonceStore overrides the consumed-nonce store selected by the config.
func (b *Builder) WithNonceStore(store metatx.NonceStore) *Builder {
	b.nonces = store
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and seeds, constructs the aggregate
// state, and returns the engine. A second Build on the same builder fails.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil {
		if cfg.Archive.Enabled {
			return nil, errors.New("Archive requires redis client")
		}
		if cfg.MetaTx.RedisNonces {
			return nil, errors.New("RedisNonces requires redis client")
		}
	}

	if len(b.roles) == 0 {
		return nil, errors.New("roles must be provided")
	}
	for _, seed := range b.roles {
		if seed.Protected && len(seed.Members) == 0 {
			return nil, errors.New("protected role requires an initial member: " + seed.Name)
		}
	}

	if _, taken := b.executors[RoleBatchExecuteSelector]; taken {
		return nil, errors.New("role batch execution selector is built-in")
	}

	// -------- SCHEMA REGISTRY --------
	registry := permission.NewRegistry()

	if err := registry.Register(roleAdminSchema()); err != nil {
		return nil, err
	}
	for _, schema := range b.schemas {
		if err := registry.Register(schema); err != nil {
			return nil, err
		}
	}

	// -------- ROLE DIRECTORY --------
	directory := permission.NewDirectory(registry)

	for _, seed := range b.roles {
		id, err := directory.CreateRole(seed.Name, seed.MaxWallets, seed.Protected)
		if err != nil {
			return nil, err
		}
		for _, member := range seed.Members {
			if err := directory.AddWallet(id, member); err != nil {
				return nil, err
			}
		}
		for _, grant := range seed.Grants {
			if err := directory.Grant(id, grant); err != nil {
				return nil, err
			}
		}
	}

	// -------- META-TX VERIFIER --------
	nonces := b.nonces
	if nonces == nil {
		if cfg.MetaTx.RedisNonces {
			nonces = metatx.NewRedisNonceStore(b.redis, cfg.MetaTx.NoncePrefix)
		} else {
			nonces = metatx.NewMemoryNonceStore()
		}
	}
	verifier := metatx.NewVerifier(cfg.MetaTx.ChainID, nonces)

	engine := &Engine{
		config:    cfg,
		registry:  registry,
		directory: directory,
		ledger:    ledger.New(),
		verifier:  verifier,
		whitelist: b.whitelist,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
		now:       time.Now,
	}

	if cfg.Archive.Enabled {
		engine.archive = ledger.NewArchive(b.redis, cfg.Archive.RedisPrefix)
	}

	engine.executors = make(map[permission.Selector]Executor, len(b.executors)+1)
	for sel, exec := range b.executors {
		engine.executors[sel] = exec
	}
	engine.executors[RoleBatchExecuteSelector] = engine.executeRoleBatch

	engine.hooks = make(map[permission.Selector][]Hook, len(b.hooks))
	for sel, list := range b.hooks {
		engine.hooks[sel] = append([]Hook(nil), list...)
	}

	b.built = true

	return engine, nil
}
