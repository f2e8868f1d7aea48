package extractor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// NavigationError indica uma falha fatal de renderização (página
// inacessível, navegador não iniciou). Campos ausentes na página nunca
// geram esse erro.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("falha ao navegar para %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// Renderer obtém o HTML de uma página depois da renderização do
// JavaScript. O monitor e os handlers dependem desta interface para que
// os testes não precisem de um navegador real.
type Renderer interface {
	Render(url string) (string, error)
	Close()
}

// Factory abre uma nova sessão de renderização sob demanda. O monitor
// abre uma por varredura; o fluxo de adição abre uma por item.
type Factory func() (Renderer, error)

// Session é uma sessão de navegador headless reutilizável entre páginas.
// Deve sempre ser fechada com Close para não vazar o processo do Chromium.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
	wait        time.Duration
}

// NewSession abre o navegador headless no caminho configurado.
func NewSession(browserPath string, wait time.Duration) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browserPath),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Run sem ações força o lançamento do navegador agora, para que uma
	// falha de inicialização apareça aqui e não na primeira página
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("erro ao iniciar o navegador em %s: %v", browserPath, err)
	}

	return &Session{
		ctx:         ctx,
		cancel:      cancel,
		cancelAlloc: cancelAlloc,
		wait:        wait,
	}, nil
}

// NewFactory retorna uma Factory que abre sessões com a configuração dada.
func NewFactory(browserPath string, wait time.Duration) Factory {
	return func() (Renderer, error) {
		return NewSession(browserPath, wait)
	}
}

// Render navega até a URL, espera o tempo fixo configurado para o
// conteúdo dinâmico carregar e lê o HTML renderizado uma única vez.
// Não há polling de prontidão; a espera fixa é uma simplificação
// deliberada herdada do comportamento original.
func (s *Session) Render(url string) (string, error) {
	log.Printf("Renderizando página: %s", url)

	var html string
	err := chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.wait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &NavigationError{URL: url, Err: err}
	}

	return html, nil
}

// Close encerra a sessão e o processo do navegador
func (s *Session) Close() {
	s.cancel()
	s.cancelAlloc()
}
