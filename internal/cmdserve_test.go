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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body!=nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req:=httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w:=httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServePing(t *testing.T) {
	r:=NewRouter("", &RegisterParams{})
	w:=doJSON(t, r, http.MethodGet, "/api/v1/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestServeStack(t *testing.T) {
	r:=NewRouter("", &RegisterParams{Workers:1})
	req:=StackRequest{
		Bands:  []BandPayload{
			toPayload(constBand(0, 4, 3, 1, 1)),
			toPayload(constBand(1, 4, 3, 1, 2)),
			toPayload(constBand(2, 4, 3, 1, 1)),
		},
		Shifts: []ShiftVector{{0, 0}, {0, 0}},
	}
	w:=doJSON(t, r, http.MethodPost, "/api/v1/stack", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res StackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, int32(4), res.Reduced.Width)
	assert.Equal(t, int32(3), res.Reduced.Height)
	assert.Equal(t, float32(3), res.Reduced.Exposure)
	require.Len(t, res.Reduced.Data, 12)
	for _, v:=range res.Reduced.Data {
		require.NotNil(t, v)
		assert.InDelta(t, 4.0/3.0, *v, 1e-4)
	}

	w=doJSON(t, r, http.MethodGet, "/api/v1/stack/"+res.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w=doJSON(t, r, http.MethodGet, "/api/v1/stack/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeStackEmptyResult(t *testing.T) {
	r:=NewRouter("", &RegisterParams{Workers:1})
	req:=StackRequest{
		Bands:  []BandPayload{toPayload(constBand(0, 3, 3, 2, 5)), toPayload(NewNaNBand(1, 3, 3))},
		Shifts: []ShiftVector{{0, 0}},
		Crop:   true,
	}
	w:=doJSON(t, r, http.MethodPost, "/api/v1/stack", req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// the same cube reduces fine over the union
	req.Crop=false
	w=doJSON(t, r, http.MethodPost, "/api/v1/stack", req)
	require.Equal(t, http.StatusOK, w.Code)
	var res StackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	for _, v:=range res.Reduced.Data {
		require.NotNil(t, v)
		assert.Equal(t, float32(5), *v)
	}
}

func TestServeStackBadRequests(t *testing.T) {
	r:=NewRouter("", &RegisterParams{Workers:1})

	w:=doJSON(t, r, http.MethodPost, "/api/v1/stack", map[string]interface{}{"shifts": []ShiftVector{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad:=StackRequest{Bands:[]BandPayload{{Width:2, Height:2, Data:[]*float32{nil}}}}
	w=doJSON(t, r, http.MethodPost, "/api/v1/stack", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	count:=StackRequest{
		Bands:  []BandPayload{toPayload(constBand(0, 2, 2, 1, 1)), toPayload(constBand(1, 2, 2, 1, 1))},
		Shifts: []ShiftVector{{0, 0}, {0, 0}},
	}
	w=doJSON(t, r, http.MethodPost, "/api/v1/stack", count)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBandPayloadNulls(t *testing.T) {
	b:=constBand(0, 2, 1, 1, 3)
	b.Set(1, 0, float32(nan()))
	p:=toPayload(b)
	assert.Nil(t, p.Data[1])
	back, err:=p.toBand(0)
	require.NoError(t, err)
	assert.Equal(t, float32(3), back.Data[0])
	assert.True(t, isNaN32(back.Data[1]))
}
