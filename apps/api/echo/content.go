package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Venkatesan-2007/innertia/core/content"
	"github.com/Venkatesan-2007/innertia/core/policy"
)

type contentApi struct {
	svc *content.Service
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *content.Service) {
	api := contentApi{svc: svc}

	sg := g.Group("/slides", jwt)
	sg.POST("", api.createSlide, authorize(policy.ResourceSlide, policy.VerbCreate))
	sg.GET("", api.querySlides, authorize(policy.ResourceSlide, policy.VerbList))
	sg.GET("/:id", api.retrieveSlide, authorize(policy.ResourceSlide, policy.VerbRead))
	sg.PUT("/:id", api.updateSlide, authorize(policy.ResourceSlide, policy.VerbUpdate))
	sg.DELETE("", api.destroySlides, authorize(policy.ResourceSlide, policy.VerbDelete))

	ng := g.Group("/notes", jwt)
	ng.POST("", api.createNote, authorize(policy.ResourceNote, policy.VerbCreate))
	ng.GET("", api.queryNotes, authorize(policy.ResourceNote, policy.VerbList))
	ng.GET("/:id", api.retrieveNote, authorize(policy.ResourceNote, policy.VerbRead))
	ng.PUT("/:id", api.updateNote, authorize(policy.ResourceNote, policy.VerbUpdate))
	ng.DELETE("/:id", api.destroyNote, authorize(policy.ResourceNote, policy.VerbDelete))

	dg := g.Group("/doubts", jwt)
	dg.POST("", api.askDoubt, authorize(policy.ResourceDoubt, policy.VerbCreate))
	dg.GET("", api.queryDoubts, authorize(policy.ResourceDoubt, policy.VerbList))
	dg.GET("/:id", api.retrieveDoubt, authorize(policy.ResourceDoubt, policy.VerbRead))
	dg.POST("/:id/resolve", api.resolveDoubt, authorize(policy.ResourceDoubt, policy.VerbResolve))
	dg.POST("/:id/respond", api.respondToDoubt, authorize(policy.ResourceDoubtResponse, policy.VerbCreate))

	rg := g.Group("/doubt-responses", jwt)
	rg.GET("", api.queryResponses, authorize(policy.ResourceDoubtResponse, policy.VerbList))
	rg.GET("/:id", api.retrieveResponse, authorize(policy.ResourceDoubtResponse, policy.VerbRead))
	rg.PUT("/:id", api.updateResponse, authorize(policy.ResourceDoubtResponse, policy.VerbUpdate))
}

// Slides

func (api *contentApi) createSlide(ctx echo.Context) error {
	var data content.NewSlide
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSlide")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	slide, err := api.svc.CreateSlide(data)
	if err != nil {
		return errors.Wrap(err, "creating slide")
	}
	return ctx.JSON(http.StatusCreated, slide)
}

func (api *contentApi) querySlides(ctx echo.Context) error {
	filter := new(content.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []content.Slide{})
	}
	filter.Clean()

	slides, err := api.svc.FilterSlides(*filter)
	if err != nil {
		return errors.Wrap(err, "querying slides")
	}
	if slides == nil {
		slides = []content.Slide{}
	}
	return ctx.JSON(http.StatusOK, slides)
}

func (api *contentApi) retrieveSlide(ctx echo.Context) error {
	slide, err := api.svc.GetSlideByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding slide by ID")
	}
	return ctx.JSON(http.StatusOK, slide)
}

func (api *contentApi) updateSlide(ctx echo.Context) error {
	var data content.NewSlide
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSlide")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	slide, err := api.svc.UpdateSlide(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating slide")
	}
	return ctx.JSON(http.StatusOK, slide)
}

func (api *contentApi) destroySlides(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteSlides(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting slides")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Notes

func (api *contentApi) createNote(ctx echo.Context) error {
	var data content.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	note, err := api.svc.CreateNote(actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, note)
}

func (api *contentApi) queryNotes(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(content.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []content.Note{})
	}
	filter.Clean()

	notes, err := api.svc.FilterNotes(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	if notes == nil {
		notes = []content.Note{}
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *contentApi) retrieveNote(ctx echo.Context) error {
	note, err := api.svc.GetNoteByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding note by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// private notes are visible to their author alone
	if !note.IsPublic && !policy.OwnsOrAdmin(actor, note.StudentID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, note)
}

func (api *contentApi) updateNote(ctx echo.Context) error {
	note, err := api.svc.GetNoteByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding note by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if !policy.Owns(actor, note.StudentID) {
		return errHttpNotFound
	}

	var data content.UpdateNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNote")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	note, err = api.svc.UpdateNote(note.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, note)
}

func (api *contentApi) destroyNote(ctx echo.Context) error {
	note, err := api.svc.GetNoteByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding note by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if !policy.Owns(actor, note.StudentID) {
		return errHttpNotFound
	}

	if err := api.svc.DeleteNotes(note.ID); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Doubts

func (api *contentApi) askDoubt(ctx echo.Context) error {
	var data content.NewDoubt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDoubt")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	doubt, err := api.svc.AskDoubt(actor.ID, data)
	if err != nil {
		return errors.Wrap(err, "asking doubt")
	}
	return ctx.JSON(http.StatusCreated, doubt)
}

func (api *contentApi) queryDoubts(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(content.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []content.Doubt{})
	}
	filter.Clean()

	doubts, err := api.svc.FilterDoubts(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying doubts")
	}
	if doubts == nil {
		doubts = []content.Doubt{}
	}
	return ctx.JSON(http.StatusOK, doubts)
}

func (api *contentApi) retrieveDoubt(ctx echo.Context) error {
	doubt, err := api.svc.GetDoubtByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding doubt by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if actor.IsStudent() && !policy.Owns(actor, doubt.StudentID) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, doubt)
}

func (api *contentApi) resolveDoubt(ctx echo.Context) error {
	doubt, err := api.svc.GetDoubtByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding doubt by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// a student may only resolve their own doubt
	if actor.IsStudent() && !policy.Owns(actor, doubt.StudentID) {
		return errHttpNotFound
	}

	doubt, err = api.svc.ResolveDoubt(doubt.ID)
	if err != nil {
		return errors.Wrap(err, "resolving doubt")
	}
	return ctx.JSON(http.StatusOK, doubt)
}

func (api *contentApi) respondToDoubt(ctx echo.Context) error {
	var data content.NewDoubtResponse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDoubtResponse")
	}
	data.DoubtID = ctx.Param("id")
	if err := data.Validate(); err != nil {
		return err
	}

	resp, err := api.svc.RespondToDoubt(data)
	if err != nil {
		return errors.Wrap(err, "responding to doubt")
	}
	return ctx.JSON(http.StatusCreated, resp)
}

// Doubt responses

func (api *contentApi) queryResponses(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	filter := new(content.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []content.DoubtResponse{})
	}
	filter.Clean()

	responses, err := api.svc.FilterDoubtResponses(policy.ScopeFor(actor), *filter)
	if err != nil {
		return errors.Wrap(err, "querying doubt responses")
	}
	if responses == nil {
		responses = []content.DoubtResponse{}
	}
	return ctx.JSON(http.StatusOK, responses)
}

func (api *contentApi) retrieveResponse(ctx echo.Context) error {
	resp, err := api.svc.GetDoubtResponseByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding doubt response by ID")
	}

	actor, err := contextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	if actor.IsStudent() {
		doubt, err := api.svc.GetDoubtByID(resp.DoubtID)
		if err != nil {
			return errors.Wrap(err, "finding doubt by ID")
		}
		if !policy.Owns(actor, doubt.StudentID) {
			return errHttpNotFound
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *contentApi) updateResponse(ctx echo.Context) error {
	resp, err := api.svc.GetDoubtResponseByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding doubt response by ID")
	}

	var data content.NewDoubtResponse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDoubtResponse")
	}
	data.DoubtID = resp.DoubtID
	if err := data.Validate(); err != nil {
		return err
	}

	resp, err = api.svc.UpdateDoubtResponse(resp.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating doubt response")
	}
	return ctx.JSON(http.StatusOK, resp)
}
