package invoice

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/event"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/inbound"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/store"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/usecase"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgconfig"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgrouter"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgroutine"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	RunID     pkguid.NumberID
	Templates fs.FS
	Static    fs.FS
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}
	if dep.RunID == nil {
		sf, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, err
		}
		dep.RunID = sf
	}
	if dep.Context == nil {
		dep.Context = context.Background()
	}

	storage := store.NewInMemoryStore()
	bus := event.NewBus(int(dep.Config.GetInt("events.buffer")))
	consumer := event.NewAuditConsumer(bus, event.LogAuditor{}, event.ConsumerConfig{
		Workers:     int(dep.Config.GetInt("events.workers")),
		MaxRetries:  int(dep.Config.GetInt("events.max_retries")),
		BaseBackoff: 200 * time.Millisecond,
	})
	consumer.Start()

	opts := usecase.Options{
		Column:         dep.Config.GetString("invoice.column"),
		CurrencySymbol: dep.Config.GetString("invoice.currency_symbol"),
		StrictColumn:   dep.Config.GetBool("invoice.strict_column"),
	}

	uc := usecase.New(usecase.Dependency{
		Store:   storage,
		Events:  bus,
		ID:      dep.ID,
		RunID:   dep.RunID,
		Options: opts,
	})

	key := []byte(dep.Config.GetString("invoice.session_key"))
	if len(key) == 0 {
		slog.WarnContext(dep.Context, "invoice.session_key not set, signing cookies with a random key")
		key = securecookie.GenerateRandomKey(32)
	}
	sess := inbound.NewSessions(dep.ID, key)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, sess)
	if dep.Templates != nil {
		if err := inbound.RegisterPage(dep.Router, uc, sess, inbound.PageConfig{
			Templates: dep.Templates,
			Static:    dep.Static,
			Column:    opts.Column,
		}); err != nil {
			return nil, err
		}
	}

	ttl := dep.Config.GetDuration("invoice.session_ttl")
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	dep.Goroutine.Every(dep.Context, dep.Config.GetDuration("invoice.sweep_interval"), func(ctx context.Context) {
		if removed := storage.Sweep(ctx, time.Now(), ttl); removed > 0 {
			slog.InfoContext(ctx, "idle sessions evicted", "removed", removed, "remaining", storage.Len())
		}
	})

	return consumer.Stop, nil
}
