package api

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

func init() {
	registry.Register("music", newMusic)
	registry.Register("sound", newSound)
}

// pushResult maps an audio error to what scripts see: true on success, nil
// when the file is not available, false for anything else.
func pushResult(L *lua.LState, err error) int {
	switch {
	case err == nil:
		return pushBool(L, true)
	case errors.Is(err, audio.ErrNotLoaded):
		return pushNil(L)
	}
	return pushBool(L, false)
}

// needAudio makes every function return nil until the audio device is open,
// which happens after init() has run.
func needAudio(h *registry.Host, funcs map[string]lua.LGFunction) map[string]lua.LGFunction {
	for name, fn := range funcs {
		funcs[name] = func(L *lua.LState) int {
			if h.Audio == nil {
				return pushNil(L)
			}
			return fn(L)
		}
	}
	return funcs
}

func newMusic(h *registry.Host) registry.Namespace {
	// byName wraps an operation that only takes the track name.
	byName := func(op func(m *audio.Music, name string) error) lua.LGFunction {
		return func(L *lua.LState) int {
			name, ok := strArg(L, 1)
			if !ok {
				return pushNil(L)
			}
			return pushResult(L, op(h.Audio.Music, name))
		}
	}
	setter := func(op func(m *audio.Music, name string, v, dur float64) error) lua.LGFunction {
		return func(L *lua.LState) int {
			name, okN := strArg(L, 1)
			v, okV := numArg(L, 2)
			if !okN || !okV {
				return pushBool(L, false)
			}
			return pushResult(L, op(h.Audio.Music, name, v, optNum(L, 3, 0)))
		}
	}
	getter := func(op func(m *audio.Music, name string) (float64, error)) lua.LGFunction {
		return func(L *lua.LState) int {
			name, ok := strArg(L, 1)
			if !ok {
				return pushNil(L)
			}
			v, err := op(h.Audio.Music, name)
			if err != nil {
				return pushNil(L)
			}
			return pushNumber(L, v)
		}
	}

	return &table{
		name: "music",
		funcs: needAudio(h, map[string]lua.LGFunction{
			"load":   byName((*audio.Music).Load),
			"play":   byName((*audio.Music).Play),
			"pause":  byName((*audio.Music).Pause),
			"resume": byName((*audio.Music).Resume),
			"stop":   byName((*audio.Music).Stop),
			"setLooping": func(L *lua.LState) int {
				name, ok := strArg(L, 1)
				if !ok || L.GetTop() < 2 {
					return pushBool(L, false)
				}
				return pushResult(L, h.Audio.Music.SetLooping(name, boolArg(L, 2)))
			},
			"isPlaying": func(L *lua.LState) int {
				name, ok := strArg(L, 1)
				return pushBool(L, ok && h.Audio.Music.State(name) == audio.Playing)
			},
			"setVolume": setter((*audio.Music).SetVolume),
			"getVolume": getter((*audio.Music).Gain),
			"setPan":    setter((*audio.Music).SetPan),
			"getPan":    getter((*audio.Music).Pan),
			"setSpeed":  setter((*audio.Music).SetSpeed),
			"getSpeed":  getter((*audio.Music).Speed),
		}),
	}
}

func newSound(h *registry.Host) registry.Namespace {
	return &table{
		name: "sound",
		funcs: needAudio(h, map[string]lua.LGFunction{
			"load": func(L *lua.LState) int {
				name, ok := strArg(L, 1)
				if !ok {
					return pushBool(L, false)
				}
				return pushBool(L, h.Audio.Sounds.Load(name) == nil)
			},
			"play": func(L *lua.LState) int {
				name, ok := strArg(L, 1)
				if !ok {
					return pushBool(L, false)
				}
				err := h.Audio.Sounds.Play(name,
					optNum(L, 2, audio.DefaultGain),
					optNum(L, 3, audio.DefaultPan),
					optNum(L, 4, audio.DefaultSpeed),
				)
				return pushBool(L, err == nil)
			},
		}),
	}
}
