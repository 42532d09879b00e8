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
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"

	"github.com/gin-gonic/contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)


// A band as exchanged over the API. Invalid samples are null, as JSON has no NaN
type BandPayload struct {
	Width    int32      `json:"width"`
	Height   int32      `json:"height"`
	Exposure float32    `json:"exposure"`
	Data     []*float32 `json:"data"`
}

// Request to register and stack a cube
type StackRequest struct {
	Bands  []BandPayload `json:"bands"  binding:"required"`
	Shifts []ShiftVector `json:"shifts"`                      // Pairwise shifts. Measured by phase correlation if omitted
	Crop   bool          `json:"crop"`
}

// Result of a stack request
type StackResponse struct {
	ID      string        `json:"id"`
	Shifts  []ShiftVector `json:"shifts"`
	Reduced BandPayload   `json:"reduced"`
	Stats   *BasicStats   `json:"stats"`
}

func toPayload(b *Band) BandPayload {
	data:=make([]*float32, len(b.Data))
	for i:=range b.Data {
		if v:=b.Data[i]; !math.IsNaN(float64(v)) { data[i]=&v }
	}
	return BandPayload{Width:b.Naxisn[0], Height:b.Naxisn[1], Exposure:b.Exposure, Data:data}
}

func (p *BandPayload) toBand(id int) (*Band, error) {
	if p.Width<0 || p.Height<0 || int(p.Width)*int(p.Height)!=len(p.Data) {
		return nil, fmt.Errorf("band %d: %dx%d does not match %d samples", id, p.Width, p.Height, len(p.Data))
	}
	data:=make([]float32, len(p.Data))
	for i, v:=range p.Data {
		if v==nil { data[i]=float32(math.NaN()) } else { data[i]=*v }
	}
	return NewBandFromData(id, p.Width, p.Height, data, p.Exposure), nil
}

// Completed stack results by ID
type resultStore struct {
	mutex   sync.RWMutex
	results map[string]*StackResponse
}

func (s *resultStore) put(r *StackResponse) {
	s.mutex.Lock()
	s.results[r.ID]=r
	s.mutex.Unlock()
}

func (s *resultStore) get(id string) (*StackResponse, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	r, ok:=s.results[id]
	return r, ok
}


// Maps pipeline errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEmptyResult):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrEmptyCube), errors.Is(err, ErrShapeMismatch), errors.Is(err, ErrShiftCount),
	     errors.Is(err, ErrWeightCount), errors.Is(err, ErrNegativeWeight):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Sets up the API routes, and serves static files from staticDir if not empty
func NewRouter(staticDir string, regP *RegisterParams) *gin.Engine {
	r:=gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// Serve frontend static files
	if staticDir!="" {
		r.Use(static.Serve("/", static.LocalFile(staticDir, true)))
	}

	store:=&resultStore{results:map[string]*StackResponse{}}

	api:=r.Group("/api/v1")
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api.POST("/stack", func(c *gin.Context) {
		var req StackRequest
		if err:=c.ShouldBindJSON(&req); err!=nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err:=handleStack(&req, regP)
		if err!=nil {
			LogPrintf("Stack request failed: %s\n", err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		store.put(res)
		c.JSON(http.StatusOK, res)
	})

	api.GET("/stack/:id", func(c *gin.Context) {
		res, ok:=store.get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such result"})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	return r
}

func handleStack(req *StackRequest, regP *RegisterParams) (*StackResponse, error) {
	cube:=make(Cube, len(req.Bands))
	for i:=range req.Bands {
		b, err:=req.Bands[i].toBand(i)
		if err!=nil { return nil, fmt.Errorf("%w: %s", ErrShapeMismatch, err) }
		cube[i]=b
	}
	if len(cube)==0 { return nil, ErrEmptyCube }

	shifts:=req.Shifts
	if shifts==nil {
		var err error
		shifts, err=MeasurePairwiseShifts(cube.PadToCommonShape(), PhaseCorrelation{})
		if err!=nil { return nil, err }
	}

	p:=*regP
	p.Crop=req.Crop
	reduced, _, err:=Reduce(cube, shifts, &p)
	if err!=nil { return nil, err }

	res:=&StackResponse{ID:uuid.New().String(), Shifts:shifts, Reduced:toPayload(reduced), Stats:reduced.Stats}
	LogPrintf("Stack request %s: %d bands reduced to %dx%d\n", res.ID, len(cube), reduced.Naxisn[0], reduced.Naxisn[1])
	return res, nil
}

// Serves the API and static frontend on the given port
func CmdServe(port int, staticDir string, regP *RegisterParams) error {
	r:=NewRouter(staticDir, regP)
	return r.Run(fmt.Sprintf(":%d", port)) // listen and serve on 0.0.0.0:port (for windows "localhost:port")
}
