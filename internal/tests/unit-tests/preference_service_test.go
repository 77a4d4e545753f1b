package unit_tests

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gptlink/internal/models"
	"gptlink/internal/services"
	"gptlink/internal/tests/mocks"
)

func newPreferenceService(t *testing.T, repo *mocks.KVRepositoryMock, env *mocks.EnvironmentMock) services.PreferenceService {
	t.Helper()
	svc := services.NewPreferenceService(repo, env, nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return svc
}

func storedSnapshot(t *testing.T, repo *mocks.KVRepositoryMock) models.PreferenceSnapshot {
	t.Helper()
	raw, ok := repo.Data[models.SnapshotKey]
	require.True(t, ok, "snapshot not persisted")
	var snap models.PreferenceSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	return snap
}

func TestPreferenceService_Load_Defaults(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	svc := services.NewPreferenceService(repo, &mocks.EnvironmentMock{}, nil)

	prefs, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ThemeSystem, prefs.Theme)
	assert.Equal(t, models.LanguageZH, prefs.Language)
	assert.Equal(t, models.ModelGPT35, prefs.Model)
	assert.Equal(t, models.LoginWechat, prefs.LoginType)
	assert.Empty(t, prefs.AppConfig)
	assert.NotNil(t, prefs.AppConfig)
	assert.Zero(t, repo.Writes, "loading defaults must not write")
}

func TestPreferenceService_SetTheme_ResolvesMarker(t *testing.T) {
	cases := []struct {
		name       string
		theme      models.ThemeMode
		systemDark bool
		wantDark   bool
	}{
		{"dark", models.ThemeDark, false, true},
		{"dark ignores os", models.ThemeDark, true, true},
		{"light", models.ThemeLight, true, false},
		{"system dark", models.ThemeSystem, true, true},
		{"system light", models.ThemeSystem, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mocks.KVRepositoryMock{}
			env := &mocks.EnvironmentMock{SystemDark: tc.systemDark}
			svc := newPreferenceService(t, repo, env)

			prefs, err := svc.SetTheme(context.Background(), tc.theme)
			require.NoError(t, err)
			assert.Equal(t, tc.theme, prefs.Theme)
			assert.Equal(t, tc.theme, svc.Get().Theme)

			dark, applied := env.LastDark()
			assert.True(t, applied)
			assert.Equal(t, tc.wantDark, dark)
			assert.Equal(t, tc.theme, storedSnapshot(t, repo).State.Theme)
		})
	}
}

func TestPreferenceService_SetTheme_SystemFollowsSignalAtCallTime(t *testing.T) {
	env := &mocks.EnvironmentMock{}
	svc := newPreferenceService(t, &mocks.KVRepositoryMock{}, env)

	_, err := svc.SetTheme(context.Background(), models.ThemeSystem)
	require.NoError(t, err)
	dark, _ := env.LastDark()
	assert.False(t, dark)

	env.SetSystemDark(true)
	_, err = svc.SetTheme(context.Background(), models.ThemeSystem)
	require.NoError(t, err)
	dark, _ = env.LastDark()
	assert.True(t, dark)
}

func TestPreferenceService_SetTheme_Invalid(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	env := &mocks.EnvironmentMock{}
	svc := newPreferenceService(t, repo, env)

	_, err := svc.SetTheme(context.Background(), "sepia")
	assert.ErrorIs(t, err, services.ErrInvalidPreference)
	assert.Equal(t, models.ThemeSystem, svc.Get().Theme)
	assert.Zero(t, repo.Writes)
	assert.Empty(t, env.DarkCalls)
}

func TestPreferenceService_SetLanguage_Persists(t *testing.T) {
	for _, lang := range models.Languages {
		repo := &mocks.KVRepositoryMock{}
		svc := newPreferenceService(t, repo, &mocks.EnvironmentMock{})

		prefs, err := svc.SetLanguage(context.Background(), lang)
		require.NoError(t, err)
		assert.Equal(t, lang, prefs.Language)
		assert.Equal(t, lang, storedSnapshot(t, repo).State.Language)
	}
}

func TestPreferenceService_SetLanguage_DoesNotTouchTheme(t *testing.T) {
	env := &mocks.EnvironmentMock{}
	svc := newPreferenceService(t, &mocks.KVRepositoryMock{}, env)

	_, err := svc.SetLanguage(context.Background(), models.LanguageEN)
	require.NoError(t, err)
	assert.Empty(t, env.DarkCalls)
	require.Len(t, env.Changes, 1)
	assert.Equal(t, models.LanguageEN, env.Changes[0].Language)
}

func TestPreferenceService_SetModel_AcceptsDisabledModel(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	svc := newPreferenceService(t, repo, &mocks.EnvironmentMock{})

	prefs, err := svc.SetModel(context.Background(), models.ModelGPT4)
	require.NoError(t, err)
	assert.Equal(t, models.ModelGPT4, prefs.Model)
	assert.Equal(t, models.ModelGPT4, storedSnapshot(t, repo).State.Model)
}

func TestPreferenceService_SetModel_Unknown(t *testing.T) {
	svc := newPreferenceService(t, &mocks.KVRepositoryMock{}, &mocks.EnvironmentMock{})

	_, err := svc.SetModel(context.Background(), "Claude-9")
	assert.ErrorIs(t, err, services.ErrInvalidPreference)
	assert.Equal(t, models.ModelGPT35, svc.Get().Model)
}

func TestPreferenceService_SetLoginType(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	svc := newPreferenceService(t, repo, &mocks.EnvironmentMock{})

	prefs, err := svc.SetLoginType(context.Background(), models.LoginPhone)
	require.NoError(t, err)
	assert.Equal(t, models.LoginPhone, prefs.LoginType)
	assert.Equal(t, models.LoginPhone, storedSnapshot(t, repo).State.LoginType)

	_, err = svc.SetLoginType(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrInvalidPreference)
}

func TestPreferenceService_SetAppConfig_DerivesLoginType(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	svc := newPreferenceService(t, repo, &mocks.EnvironmentMock{})

	cfg := models.AppConfig{
		"name":       "GPTLink",
		"web_logo":   "https://example.com/logo.png",
		"user_logo":  "https://example.com/user.png",
		"login_type": "phone",
	}
	prefs, err := svc.SetAppConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, models.LoginPhone, prefs.LoginType)
	assert.Equal(t, cfg, prefs.AppConfig)

	snap := storedSnapshot(t, repo)
	assert.Equal(t, models.LoginPhone, snap.State.LoginType)
	assert.Equal(t, "GPTLink", snap.State.AppConfig.Name())
}

func TestPreferenceService_SetAppConfig_OverridesManualLoginType(t *testing.T) {
	svc := newPreferenceService(t, &mocks.KVRepositoryMock{}, &mocks.EnvironmentMock{})

	_, err := svc.SetLoginType(context.Background(), models.LoginEmail)
	require.NoError(t, err)
	prefs, err := svc.SetAppConfig(context.Background(), models.AppConfig{"login_type": "wechat"})
	require.NoError(t, err)
	assert.Equal(t, models.LoginWechat, prefs.LoginType)
}

func TestPreferenceService_SetAppConfig_IsolatedFromCaller(t *testing.T) {
	svc := newPreferenceService(t, &mocks.KVRepositoryMock{}, &mocks.EnvironmentMock{})

	cfg := models.AppConfig{"name": "before"}
	_, err := svc.SetAppConfig(context.Background(), cfg)
	require.NoError(t, err)
	cfg["name"] = "after"

	got := svc.Get()
	assert.Equal(t, "before", got.AppConfig.Name())
	got.AppConfig["name"] = "mutated"
	assert.Equal(t, "before", svc.Get().AppConfig.Name())
}

func TestPreferenceService_SetAppConfig_RejectsUnencodableBlob(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	svc := newPreferenceService(t, repo, &mocks.EnvironmentMock{})
	_, err := svc.SetAppConfig(context.Background(), models.AppConfig{"name": "cached", "login_type": "email"})
	require.NoError(t, err)
	writes := repo.Writes

	prefs, err := svc.SetAppConfig(context.Background(), models.AppConfig{"name": "GPTLink", "login_type": "phone", "ratio": math.NaN()})
	assert.ErrorIs(t, err, services.ErrConfig)
	assert.Equal(t, "cached", prefs.AppConfig.Name())
	assert.Equal(t, models.LoginEmail, prefs.LoginType)
	assert.Equal(t, writes, repo.Writes)
}

func TestPreferenceService_SetAppConfig_KeepsValuesExactly(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	ctx := context.Background()
	svc := newPreferenceService(t, repo, &mocks.EnvironmentMock{})

	cfg := models.AppConfig{"id": int64(9007199254740993), "tags": []any{"a", map[string]any{"b": 1}}}
	prefs, err := svc.SetAppConfig(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, prefs.AppConfig)

	restored, err := services.NewPreferenceService(repo, nil, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), restored.AppConfig["id"])
}

func TestPreferenceService_RoundTripThroughStorage(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	ctx := context.Background()
	first := newPreferenceService(t, repo, &mocks.EnvironmentMock{})

	_, err := first.SetTheme(ctx, models.ThemeDark)
	require.NoError(t, err)
	_, err = first.SetLanguage(ctx, models.LanguageEN)
	require.NoError(t, err)
	_, err = first.SetModel(ctx, models.ModelChatGLMPro)
	require.NoError(t, err)
	_, err = first.SetAppConfig(ctx, models.AppConfig{"name": "GPTLink", "login_type": "email"})
	require.NoError(t, err)

	second := services.NewPreferenceService(repo, &mocks.EnvironmentMock{}, nil)
	restored, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Get(), restored)
	assert.Equal(t, models.LoginEmail, restored.LoginType)
}

func TestPreferenceService_Load_MigratesLegacyKeys(t *testing.T) {
	repo := &mocks.KVRepositoryMock{Data: map[string][]byte{
		models.LegacyLanguageKey: []byte("en"),
		models.LegacyModelKey:    []byte(`"ChatGLM-Std"`),
	}}
	svc := services.NewPreferenceService(repo, &mocks.EnvironmentMock{}, nil)

	prefs, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.LanguageEN, prefs.Language)
	assert.Equal(t, models.ModelChatGLMStd, prefs.Model)

	_, hasLang := repo.Data[models.LegacyLanguageKey]
	_, hasModel := repo.Data[models.LegacyModelKey]
	assert.False(t, hasLang)
	assert.False(t, hasModel)
	assert.Equal(t, models.LanguageEN, storedSnapshot(t, repo).State.Language)
}

func TestPreferenceService_Load_SnapshotWinsOverLegacyKeys(t *testing.T) {
	snapshot, err := models.EncodeSnapshot(models.DefaultPreferences().WithLanguage(models.LanguageZH))
	require.NoError(t, err)
	repo := &mocks.KVRepositoryMock{Data: map[string][]byte{
		models.SnapshotKey:       snapshot,
		models.LegacyLanguageKey: []byte("en"),
	}}
	svc := services.NewPreferenceService(repo, nil, nil)

	prefs, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.LanguageZH, prefs.Language)
}

func TestPreferenceService_Load_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	repo := &mocks.KVRepositoryMock{Data: map[string][]byte{
		models.SnapshotKey: []byte("{not json"),
	}}
	svc := services.NewPreferenceService(repo, nil, nil)

	prefs, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)
}

func TestPreferenceService_Load_UnknownValuesResetToDefaults(t *testing.T) {
	repo := &mocks.KVRepositoryMock{Data: map[string][]byte{
		models.SnapshotKey: []byte(`{"state":{"theme":"sepia","language":"fr","model":"Claude-9","loginType":"phone","appConfig":{"name":"kept"}},"version":0}`),
	}}
	env := &mocks.EnvironmentMock{}
	svc := services.NewPreferenceService(repo, env, nil)

	prefs, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ThemeSystem, prefs.Theme)
	assert.Equal(t, models.LanguageZH, prefs.Language)
	assert.Equal(t, models.ModelGPT35, prefs.Model)
	assert.Equal(t, models.LoginPhone, prefs.LoginType)
	assert.Equal(t, "kept", prefs.AppConfig.Name())

	// The repaired record replaces the stored one.
	snap := storedSnapshot(t, repo)
	assert.Equal(t, models.ThemeSystem, snap.State.Theme)
	assert.Equal(t, models.LanguageZH, snap.State.Language)
	assert.Equal(t, models.ModelGPT35, snap.State.Model)

	_, err = svc.SetTheme(context.Background(), prefs.Theme)
	assert.NoError(t, err)
}

func TestPreferenceService_Load_ReadError(t *testing.T) {
	repo := &mocks.KVRepositoryMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, errors.New("disk gone")
		},
	}
	svc := services.NewPreferenceService(repo, nil, nil)

	prefs, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, services.ErrStorage)
	assert.Equal(t, models.DefaultPreferences(), prefs)
}

func TestPreferenceService_WriteFailureKeepsNewState(t *testing.T) {
	repo := &mocks.KVRepositoryMock{
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			return errors.New("read-only filesystem")
		},
	}
	env := &mocks.EnvironmentMock{}
	svc := newPreferenceService(t, repo, env)

	prefs, err := svc.SetTheme(context.Background(), models.ThemeDark)
	assert.ErrorIs(t, err, services.ErrStorage)
	assert.Equal(t, models.ThemeDark, prefs.Theme)
	assert.Equal(t, models.ThemeDark, svc.Get().Theme)
	dark, _ := env.LastDark()
	assert.True(t, dark)
}

func TestPreferenceService_Reset(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	env := &mocks.EnvironmentMock{}
	svc := newPreferenceService(t, repo, env)
	ctx := context.Background()

	_, err := svc.SetTheme(ctx, models.ThemeDark)
	require.NoError(t, err)
	_, err = svc.SetModel(ctx, models.ModelChatGLMLite)
	require.NoError(t, err)

	prefs, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)
	assert.Equal(t, models.DefaultPreferences(), storedSnapshot(t, repo).State)
	dark, _ := env.LastDark()
	assert.False(t, dark)
}

func TestPreferenceService_ApplyEnvironment(t *testing.T) {
	env := &mocks.EnvironmentMock{SystemDark: true}
	repo := &mocks.KVRepositoryMock{}
	svc := newPreferenceService(t, repo, env)

	assert.True(t, svc.ApplyEnvironment(context.Background()))
	assert.Equal(t, []bool{true}, env.DarkCalls)
	assert.Zero(t, repo.Writes)
}

func TestPreferenceService_ConcurrentSettersStayConsistent(t *testing.T) {
	repo := &mocks.KVRepositoryMock{}
	svc := newPreferenceService(t, repo, &mocks.EnvironmentMock{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.SetTheme(ctx, models.ThemeModes[i%len(models.ThemeModes)])
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.SetAppConfig(ctx, models.AppConfig{"login_type": "phone", "n": float64(i)})
		}(i)
	}
	wg.Wait()

	final := svc.Get()
	assert.Equal(t, models.LoginPhone, final.LoginType)
	assert.Equal(t, final, storedSnapshot(t, repo).State)
}
