package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_NoopBeforeInit(t *testing.T) {
	defaultLogger = nil
	// Must not panic and must not create any file.
	Debug(CatRegistry, "ignored")
	Info(CatConfig, "ignored")
}

func TestLog_WritesStructuredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := InitWithTeaLog(path, "consulta-cnpj")
	require.NoError(t, err)
	defer cleanup()

	Debug(CatRegistry, "Lookup started", "code", "11222333000181")
	Info(CatExport, "Planilha salva", "path", "resultado.xlsx")
	Warn(CatRegistry, "Rate limited", "wait_seconds", 60)
	ErrorErr(CatConfig, "Falha ao salvar config", errors.New("disk full"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	require.Contains(t, out, "[DEBUG] [registry] Lookup started code=11222333000181")
	require.Contains(t, out, "[INFO] [export] Planilha salva path=resultado.xlsx")
	require.Contains(t, out, "[WARN] [registry] Rate limited wait_seconds=60")
	require.Contains(t, out, "[ERROR] [config] Falha ao salvar config error=disk full")
}

func TestLog_OddFieldCountGetsPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := InitWithTeaLog(path, "consulta-cnpj")
	require.NoError(t, err)
	defer cleanup()

	Info(CatUI, "Tab changed", "orphan")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [ui] Tab changed orphan=<missing>")
}
