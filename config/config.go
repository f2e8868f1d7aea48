package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contém as configurações da aplicação
type Config struct {
	TelegramBotToken    string
	AdminChatID         int64
	UpdateIntervalHours int
	UpdateInterval      time.Duration
	DatabasePath        string
	BrowserPath         string
	RenderWait          time.Duration
	RequestDelay        time.Duration
	AllowedDomains      []string
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN não configurado. Obtenha um token com o @BotFather")
	}

	cfg := &Config{
		TelegramBotToken:    token,
		UpdateIntervalHours: 4,
		DatabasePath:        "./cs_market.db",
		BrowserPath:         "/usr/bin/chromium-browser",
		RenderWait:          5 * time.Second,
		RequestDelay:        5 * time.Second,
		AllowedDomains:      []string{"market.csgo.com", "steamcommunity.com"},
	}

	// Chat do administrador: sem ele o bot funciona, mas os relatórios
	// periódicos ficam desativados
	if chatIDStr := os.Getenv("ADMIN_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.AdminChatID = chatID
		}
	}

	// Intervalo entre varreduras
	if envInterval := os.Getenv("UPDATE_INTERVAL_HOURS"); envInterval != "" {
		if parsed, err := strconv.Atoi(envInterval); err == nil && parsed > 0 {
			cfg.UpdateIntervalHours = parsed
		}
	}
	cfg.UpdateInterval = time.Duration(cfg.UpdateIntervalHours) * time.Hour

	if path := os.Getenv("DATABASE_PATH"); path != "" {
		cfg.DatabasePath = path
	}

	if path := os.Getenv("BROWSER_PATH"); path != "" {
		cfg.BrowserPath = path
	}

	// Espera fixa pela renderização do JavaScript da página
	if envWait := os.Getenv("RENDER_WAIT_SECONDS"); envWait != "" {
		if parsed, err := strconv.Atoi(envWait); err == nil && parsed > 0 {
			cfg.RenderWait = time.Duration(parsed) * time.Second
		}
	}

	// Delay entre páginas durante a varredura
	if envDelay := os.Getenv("REQUEST_DELAY_SECONDS"); envDelay != "" {
		if parsed, err := strconv.Atoi(envDelay); err == nil && parsed >= 0 {
			cfg.RequestDelay = time.Duration(parsed) * time.Second
		}
	}

	if domains := os.Getenv("ALLOWED_DOMAINS"); domains != "" {
		cfg.AllowedDomains = nil
		for _, domain := range strings.Split(domains, ",") {
			if domain = strings.TrimSpace(domain); domain != "" {
				cfg.AllowedDomains = append(cfg.AllowedDomains, domain)
			}
		}
	}

	return cfg, nil
}

// IsAllowedURL verifica se a URL pertence a um dos domínios permitidos
func (c *Config) IsAllowedURL(url string) bool {
	for _, domain := range c.AllowedDomains {
		if strings.Contains(url, domain) {
			return true
		}
	}
	return false
}

// IsAdmin verifica se o usuário é o administrador configurado
func (c *Config) IsAdmin(userID int64) bool {
	return c.AdminChatID != 0 && userID == c.AdminChatID
}
