// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg:=DefaultConfig()
	assert.False(t, cfg.Reg.Crop)
	assert.Equal(t, "out.fits", cfg.Stack.OutName)
	assert.Equal(t, 8080, cfg.Serve.Port)
	assert.True(t, cfg.Pre.FlipY)
	assert.Equal(t, float32(1), cfg.Color.ChromaBy)
	assert.Equal(t, 10, cfg.Stats.Bins)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err:=LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err=LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path:=filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("register:\n  crop: true\nstack:\n  outName: reduced.fits\n"), 0644))
	cfg, err:=LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Reg.Crop)
	assert.Equal(t, "reduced.fits", cfg.Stack.OutName)
	assert.Equal(t, 8080, cfg.Serve.Port)
	assert.Equal(t, int32(200), cfg.Pre.BackGrid)
}

func TestLoadConfigInvalid(t *testing.T) {
	path:=filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("register: [\n"), 0644))
	_, err:=LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path:=filepath.Join(t.TempDir(), "sub", "cfg.yaml")
	cfg:=DefaultConfig()
	cfg.Reg.Workers=3
	cfg.Post.FalseColor=true
	require.NoError(t, SaveConfig(cfg, path))
	loaded, err:=LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestShiftsRoundTrip(t *testing.T) {
	path:=filepath.Join(t.TempDir(), "shifts.yaml")
	shifts:=[]ShiftVector{{1.5, -0.25}, {0, 2}}
	require.NoError(t, SaveShifts(shifts, path))
	loaded, err:=LoadShifts(path)
	require.NoError(t, err)
	assert.Equal(t, shifts, loaded)

	require.NoError(t, os.WriteFile(path, []byte("- dx: 1\n  dy: 2\n"), 0644))
	loaded, err=LoadShifts(path)
	require.NoError(t, err)
	assert.Equal(t, []ShiftVector{{1, 2}}, loaded)
}
