// Package bot assembles the shoe-deal bot: configuration, storage, the
// dialog engine and the Telegram runtime wiring.
package bot

import (
	"context"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/yaml.v3"

	"github.com/Yulia-Kablukova/runenburg/bot/catalog"
	"github.com/Yulia-Kablukova/runenburg/bot/dialog"
	"github.com/Yulia-Kablukova/runenburg/bot/session"
	"github.com/Yulia-Kablukova/runenburg/bot/storage"
	"github.com/Yulia-Kablukova/runenburg/bot/texts"
	"github.com/Yulia-Kablukova/runenburg/core/bootstrap"
	coreconfig "github.com/Yulia-Kablukova/runenburg/core/config"
	coredatabase "github.com/Yulia-Kablukova/runenburg/core/database"
	coretelegram "github.com/Yulia-Kablukova/runenburg/core/telegram"
	"github.com/Yulia-Kablukova/runenburg/core/telegram/commands"
	"github.com/Yulia-Kablukova/runenburg/core/telegram/router"
	tgsender "github.com/Yulia-Kablukova/runenburg/core/telegram/sender"
)

// ContactConfig points users at the human behind the bot.
type ContactConfig struct {
	// SupportHandle is the handle substituted into the help text.
	SupportHandle string `yaml:"support_handle" envconfig:"SUPPORT_HANDLE"`
	// URL backs the "contact us" button attached to broadcast deliveries.
	URL string `yaml:"url" envconfig:"SUPPORT_URL"`
}

// Config is the full application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Contact  ContactConfig       `yaml:"contact"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads the YAML file, overlays environment variables and validates.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Contact.SupportHandle == "" {
		return nil, fmt.Errorf("contact.support_handle is required")
	}
	return &cfg, nil
}

// Default calculator settings seeded on first start. /set_rate and
// /set_commission overwrite them at runtime.
const (
	defaultRate       = "100"
	defaultCommission = "10"
)

// App holds the assembled application.
type App struct {
	cfg        *Config
	repo       *storage.Repository
	sessions   *session.Store
	dispatcher *tgsender.Dispatcher
	sender     *telegramSender
	engine     *dialog.Engine
	closeDB    func() error
}

// Bootstrap initializes infrastructure and assembles the application graph.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	repo := storage.New(res.DB)
	dispatcher := tgsender.NewDispatcher(tgsender.Options{})
	snd := newTelegramSender(dispatcher)
	sessions := session.NewStore()
	engine := dialog.New(repo, snd, sessions, dialog.Config{
		AdminID:        cfg.Core.Telegram.AdminID,
		SupportIDs:     cfg.Core.Telegram.SupportIDs,
		SupportContact: cfg.Contact.SupportHandle,
		ContactURL:     cfg.Contact.URL,
	})

	if err := bootstrap.RunSeeders(context.Background(), repo, defaultSettingsSeeder()); err != nil {
		_ = res.DB.Close()
		return nil, fmt.Errorf("seed settings: %w", err)
	}

	return &App{
		cfg:        cfg,
		repo:       repo,
		sessions:   sessions,
		dispatcher: dispatcher,
		sender:     snd,
		engine:     engine,
		closeDB:    res.DB.Close,
	}, nil
}

func defaultSettingsSeeder() bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, st bootstrap.Storage) error {
		repo, ok := st.(*storage.Repository)
		if !ok {
			return nil
		}
		if err := repo.SeedSetting(ctx, storage.SettingRate, defaultRate); err != nil {
			return err
		}
		return repo.SeedSetting(ctx, storage.SettingCommission, defaultCommission)
	})
}

// TelegramRunOptions builds the runtime wiring: registry, routes, middleware.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.fallbackText)

	accessDenied := func(c tele.Context) error {
		return c.Send(texts.AccessDenied)
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.cfg.Core.Telegram.AdminID,
		SupportIDs:    a.cfg.Core.Telegram.SupportIDs,
		OnAdminReject: accessDenied,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{
		UnknownPhoto: a.fallbackPhoto,
	})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Dispatcher:  a.dispatcher,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.sender.Bind(rt.Bot)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.closeDB()
		},
	}, nil
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Начать работу с ботом",
		Hidden:      true,
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Ничего не понимаю 🥲",
	})
	reg.RegisterCommand("/subscribe", commands.Command{
		Handler:     a.handleSubscribe,
		Description: "Добавить подписку",
	})
	reg.RegisterCommand("/my_subscriptions", commands.Command{
		Handler:     a.handleMySubscriptions,
		Description: "Показать текущие подписки",
	})
	reg.RegisterCommand("/unsubscribe", commands.Command{
		Handler:     a.handleUnsubscribe,
		Description: "Отписаться от рассылки",
	})
	reg.RegisterCommand("/calculate_price", commands.Command{
		Handler:     a.handleCalculatePrice,
		Description: "Рассчитать цену с сайта Tradeinn",
	})

	reg.RegisterCommand("/admin", commands.Command{
		Handler:     a.handleAdmin,
		Description: "Справка по командам администратора",
		StaffOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/subscriptions", commands.Command{
		Handler:     a.handleAllSubscriptions,
		Description: "Список всех подписок",
		Hidden:      true,
	})
	reg.RegisterCommand("/users", commands.Command{
		Handler:     a.handleUsers,
		Description: "Список всех пользователей",
		StaffOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/post", commands.Command{
		Handler:     a.handlePost,
		Description: "Создать рассылку",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/clear", commands.Command{
		Handler:     a.handleClear,
		Description: "Очистить данные рассылки",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/set_rate", commands.Command{
		Handler:     a.handleSetRate,
		Description: "Установить курс евро",
		StaffOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/get_rate", commands.Command{
		Handler:     a.handleGetRate,
		Description: "Посмотреть текущий курс",
		StaffOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/set_commission", commands.Command{
		Handler:     a.handleSetCommission,
		Description: "Установить процент комиссии",
		StaffOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/get_commission", commands.Command{
		Handler:     a.handleGetCommission,
		Description: "Посмотреть текущую комиссию",
		StaffOnly:   true,
		Hidden:      true,
	})
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) error {
	regs := []struct {
		key     string
		handler tele.HandlerFunc
	}{
		{catalog.CallbackBrand, a.callbackBrand},
		{catalog.CallbackSex, a.callbackSex},
		{catalog.CallbackSize, a.callbackSize},
		{catalog.CallbackConfirm, a.callbackConfirm},
		{catalog.CallbackPostClear, a.callbackPostClear},
		{catalog.CallbackPostSend, a.callbackPostSend},
		{catalog.CallbackUnsub, a.callbackUnsub},
		{catalog.CallbackUnsubAll, a.callbackUnsubAll},
	}
	for _, r := range regs {
		if err := reg.RegisterCallback(r.key, r.handler); err != nil {
			return err
		}
	}
	return nil
}
