// Package gamejr is a small 2D game library for learners. A Session owns a
// physics world, a camera and the actors living in it, and runs them in a
// fixed-step ebiten loop.
package gamejr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/gamejr/gamejr/assets"
	"github.com/gamejr/gamejr/camera"
	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/config"
	"github.com/gamejr/gamejr/costume"
	"github.com/gamejr/gamejr/ecs"
	"github.com/gamejr/gamejr/input"
	"github.com/gamejr/gamejr/physics"
	"github.com/gamejr/gamejr/render"
	"github.com/gamejr/gamejr/sound"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// State is the session lifecycle stage.
type State int

const (
	NotStarted State = iota
	Running
	Ended
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrEnded          = errors.New("session ended")
	ErrAlreadyStarted = errors.New("session already started")
)

// pauseKey toggles the pause menu.
const pauseKey = "escape"

type follow struct {
	target ecs.Entity
	opts   camera.FollowOptions
	active bool
}

type globalText struct {
	name string
	info TextInfo
}

// Session is one game: the world, the camera, every actor and the loop
// that drives them. It implements ebiten.Game.
type Session struct {
	cfg       config.Config
	logger    *log.Logger
	ownLogger bool
	state     State
	headless  bool

	world      *physics.World
	cam        *camera.Camera
	controls   camera.Controls
	controlsOn bool
	follow     follow

	store   *ecs.Store
	actors  ecs.SparseSet[*Actor]
	order   []*Actor
	byBody  map[*cp.Body]*Actor
	joints  []*physics.Joint
	onFrame []func(*Session)

	handlers dispatcher
	input    input.Source
	events   ecs.EventQueue[input.Event]
	keys     input.KeySet
	buttons  input.KeySet
	mouse    cp.Vector

	clock  time.Duration
	frames uint64

	assets     *assets.Cache
	sound      *sound.Player
	comp       *render.Compositor
	background render.Background
	bgSource   image.Image
	texts      []globalText
	hud        *HUD
	overlay    *mouseOverlay

	paused bool
	pause  *ebitenui.UI

	watchPaths []string
	watcher    *config.Watcher
	onReload   []func(config.Change)

	scheduler *ecs.Scheduler[*Session]
}

// NewSession validates cfg and prepares a session. Nothing touches the
// window until Start.
func NewSession(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gamejr: new session: %w", err)
	}
	s := &Session{
		cfg:        cfg,
		ownLogger:  true,
		store:      ecs.NewStore(),
		byBody:     make(map[*cp.Body]*Actor),
		controls:   cfg.Camera.Bindings(),
		controlsOn: cfg.Camera.Controls,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "gamejr"})
		s.ownLogger = true
	}
	if s.ownLogger {
		lvl, _ := cfg.Log.ParsedLevel()
		s.logger.SetLevel(lvl)
	}
	if s.assets == nil {
		s.assets = assets.NewCache(assets.Options{
			Dirs:   cfg.Assets.Dirs,
			Policy: cfg.Assets.Policy(),
			Logger: s.logger,
		})
	}
	if s.sound == nil {
		s.sound = sound.NewPlayer(s.assets, s.logger)
	}
	if s.input == nil {
		s.input = input.NewPoller()
	}
	s.world = physics.NewWorld(cfg.Physics.World(), s.logger)
	s.cam = camera.New(float64(cfg.Width), float64(cfg.Height))
	s.hud = newHUD(s)
	s.overlay = &mouseOverlay{s: s}

	stage := func(fn func(*Session)) ecs.System[*Session] {
		return ecs.SystemFunc[*Session](func(s *Session) {
			if s.running() {
				fn(s)
			}
		})
	}
	s.scheduler = ecs.NewScheduler(
		stage((*Session).stepPhysics),
		stage((*Session).updateCamera),
		stage((*Session).drainInput),
		stage((*Session).heldInput),
		stage((*Session).runFrameCallbacks),
		stage((*Session).advanceClock),
		stage((*Session).housekeeping),
	)
	return s, nil
}

// Start applies the configuration and moves the session to Running.
func (s *Session) Start() error {
	switch s.state {
	case Running:
		return ErrAlreadyStarted
	case Ended:
		return ErrEnded
	}
	if err := s.applyScreen(s.cfg); err != nil {
		return fmt.Errorf("gamejr: start: %w", err)
	}
	s.world.SetGravity(s.cfg.Gravity.Vector())

	if !s.headless {
		ebiten.SetWindowSize(s.cfg.Width, s.cfg.Height)
		ebiten.SetWindowTitle(s.cfg.Title)
		ebiten.SetWindowClosingHandled(true)
		ebiten.SetTPS(s.cfg.FPS)
	}

	if s.cfg.Watch && len(s.watchPaths) > 0 {
		w, err := config.NewWatcher(s.watchPaths...)
		if err != nil {
			s.logger.Warn("watch disabled", "err", err)
		} else {
			s.watcher = w
		}
	}

	s.state = Running
	s.logger.Info("session started",
		"size", fmt.Sprintf("%dx%d", s.cfg.Width, s.cfg.Height),
		"fps", s.cfg.FPS, "substeps", s.cfg.Substeps)
	return nil
}

// applyScreen sets the background from cfg.
func (s *Session) applyScreen(cfg config.Config) error {
	bg := color.Color(color.Black)
	if cfg.Background != "" {
		c, err := common.ParseColor(cfg.Background)
		if err != nil {
			return fmt.Errorf("background %q: %w", cfg.Background, err)
		}
		bg = c
	}
	s.background.Color = bg

	s.bgSource = nil
	if s.background.Image != nil {
		s.background.Image.Deallocate()
		s.background.Image = nil
	}
	if cfg.BackgroundImage != "" {
		img, err := s.assets.Load(cfg.BackgroundImage)
		if err != nil {
			return fmt.Errorf("background image: %w", err)
		}
		s.bgSource = img
	}
	return nil
}

// KeepRunning starts the session if needed and runs the ebiten loop until
// the session ends.
func (s *Session) KeepRunning() error {
	if s.state == NotStarted {
		if err := s.Start(); err != nil {
			return err
		}
	}
	if s.state == Ended {
		return ErrEnded
	}
	err := ebiten.RunGame(s)
	s.End()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("gamejr: run: %w", err)
	}
	return nil
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) IsRunning() bool {
	return s.running()
}

func (s *Session) running() bool {
	return s != nil && s.state == Running
}

// End stops the session and releases actors, joints, sounds and the
// watcher. Ending twice is a no-op.
func (s *Session) End() {
	if s == nil || s.state == Ended {
		return
	}
	s.state = Ended
	s.sound.StopAll()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn("close watcher", "err", err)
		}
		s.watcher = nil
	}
	s.world.Clear()
	s.actors.Clear()
	s.handlers.clear()
	s.order = nil
	s.joints = nil
	s.onFrame = nil
	s.byBody = make(map[*cp.Body]*Actor)
	s.follow = follow{}
	s.events.Clear()
	if s.comp != nil {
		s.comp.Close()
		s.comp = nil
	}
	s.logger.Info("session ended", "frames", s.frames)
}

// Update advances one display tick.
func (s *Session) Update() error {
	switch s.state {
	case NotStarted:
		return nil
	case Ended:
		return ebiten.Termination
	}
	s.input.Poll(&s.events)
	if s.paused {
		s.updatePaused()
	} else {
		s.scheduler.Update(s)
	}
	if s.state == Ended {
		return ebiten.Termination
	}
	return nil
}

// updatePaused only listens for quit and the pause key while the menu is
// shown; the world stays frozen. Events after a resume wait for the next
// running frame.
func (s *Session) updatePaused() {
	batch := s.events.Drain()
	for i, evt := range batch {
		switch {
		case evt.Kind == input.Quit:
			s.End()
			return
		case evt.Kind == input.KeyDown && evt.Key == pauseKey:
			s.SetPaused(false)
			s.requeue(batch[i+1:])
			return
		}
		input.Apply(&s.keys, &s.buttons, evt)
	}
	if s.pause != nil && !s.headless {
		s.pause.Update()
	}
}

// requeue puts undispatched events back in front of the next poll.
func (s *Session) requeue(rest []input.Event) {
	for _, evt := range rest {
		s.events.Push(evt)
	}
}

func (s *Session) frameSeconds() float64 {
	return 1 / float64(s.cfg.FPS)
}

func (s *Session) stepPhysics() {
	dt := 1 / float64(s.cfg.FPS*s.cfg.Substeps)
	for range s.cfg.Substeps {
		s.world.Step(dt)
	}
}

func (s *Session) updateCamera() {
	s.cam.Update(float32(s.frameSeconds()))
	if !s.follow.active {
		return
	}
	a, ok := s.actors.Get(s.follow.target)
	if !ok {
		s.follow = follow{}
		return
	}
	s.cam.Follow(a.Rect().Corners(), a.Angle(), s.follow.opts)
}

func (s *Session) drainInput() {
	batch := s.events.Drain()
	for i, evt := range batch {
		if evt.Kind == input.KeyDown && evt.Key == pauseKey && s.cfg.PauseMenu {
			s.SetPaused(true)
			s.requeue(batch[i+1:])
			return
		}
		switch evt.Kind {
		case input.Quit:
			s.End()
			return
		case input.MouseDown, input.MouseUp, input.MouseMove, input.MouseWheel:
			s.mouse = evt.Pos
			evt.Pos = s.cam.ScreenToWorld(evt.Pos)
		}
		input.Apply(&s.keys, &s.buttons, evt)

		if evt.Kind == input.KeyDown && s.cfg.Debug.ShowMouse && evt.Key == overlayCopyKey {
			s.overlay.copy()
		}
		s.handlers.dispatch(s, evt)
		if !s.running() {
			return
		}
	}
}

func (s *Session) heldInput() {
	if s.controlsOn {
		s.controls.Update(s.cam, &s.keys)
	}
	if s.keys.Len() > 0 {
		names := s.keys.Names()
		s.handlers.keyPress.each(s, func(a *Actor, h KeysHandler) { h(a, names) })
	}
	if s.buttons.Len() > 0 && s.running() {
		names, pos := s.buttons.Names(), s.MouseXY()
		s.handlers.mouseButton.each(s, func(a *Actor, h ButtonsHandler) { h(a, names, pos) })
	}
}

func (s *Session) runFrameCallbacks() {
	for _, fn := range slices.Clone(s.onFrame) {
		if !s.running() {
			return
		}
		fn(s)
	}
}

func (s *Session) advanceClock() {
	s.clock += time.Second / time.Duration(s.cfg.FPS)
	s.frames++
	for _, a := range s.order {
		a.costumes.Each(func(c *costume.Costume) {
			c.Update(s.clock)
		})
	}
}

func (s *Session) housekeeping() {
	s.sound.Update()
	if s.watcher == nil {
		return
	}
	for _, ch := range s.watcher.Drain() {
		if ch.Script {
			for _, fn := range s.onReload {
				fn(ch)
			}
			continue
		}
		cfg, err := config.LoadFile(ch.Path)
		if err != nil {
			s.logger.Warn("reload config", "path", ch.Path, "err", err)
			continue
		}
		s.ApplyLive(cfg)
		for _, fn := range s.onReload {
			fn(ch)
		}
	}
}

// ApplyLive takes the background, gravity, debug flags and log level from
// cfg. Other fields only apply at Start.
func (s *Session) ApplyLive(cfg config.Config) {
	next := s.cfg
	next.Background = cfg.Background
	next.BackgroundImage = cfg.BackgroundImage
	next.Gravity = cfg.Gravity
	next.Debug = cfg.Debug
	next.Log = cfg.Log
	next.Physics.Spring = cfg.Physics.Spring
	if err := s.applyScreen(next); err != nil {
		s.logger.Warn("apply config", "err", err)
		return
	}
	s.cfg = next
	s.world.SetGravity(next.Gravity.Vector())
	s.world.SetSpring(next.Physics.World().Spring)
	if s.ownLogger {
		if lvl, err := next.Log.ParsedLevel(); err == nil {
			s.logger.SetLevel(lvl)
		}
	}
	s.logger.Info("config applied", "background", next.Background, "gravity", next.Gravity.Vector())
}

// OnReload registers fn for every file change the watcher reports, after
// config changes have been applied.
func (s *Session) OnReload(fn func(config.Change)) {
	if fn != nil {
		s.onReload = append(s.onReload, fn)
	}
}

// Draw renders the current frame.
func (s *Session) Draw(screen *ebiten.Image) {
	if s.state != Running {
		return
	}
	if s.comp == nil {
		comp, err := render.NewCompositor(s.logger)
		if err != nil {
			s.logger.Error("compositor", "err", err)
			s.End()
			return
		}
		s.comp = comp
	}
	if s.background.Image == nil && s.bgSource != nil {
		s.background.Image = ebiten.NewImageFromImage(s.bgSource)
	}
	s.background.Draw(screen, s.cam)

	for _, a := range s.order {
		if a.visible {
			s.drawActor(screen, a)
		}
	}
	for _, t := range s.texts {
		s.drawGlobalText(screen, t)
	}
	s.hud.draw(screen, s.comp)

	if s.cfg.Debug.PhysicsOverlay {
		render.DrawSpace(screen, s.world.Space(), s.cam, float64(s.cfg.Height))
	}
	if s.cfg.Debug.ShowMouse {
		s.overlay.draw(screen, s.comp)
	}
	if s.paused && s.cfg.PauseMenu {
		if s.pause == nil {
			s.pause = newPauseMenu(s)
		}
		s.pause.Draw(screen)
	}
}

func (s *Session) drawActor(screen *ebiten.Image, a *Actor) {
	g := a.Geometry()
	if g == nil {
		return
	}
	it := render.Item{
		Plan:        render.PlanShape(g.Describe(), a.body.Position(), a.body.Angle(), s.cam, float64(s.cfg.Height), a.border),
		Fill:        a.fill,
		Border:      a.border,
		BorderColor: a.borderColor,
		Heading:     a.draw.Heading,
		CenterDot:   a.draw.CenterDot,
	}
	if c := a.costumes.Active(); c != nil {
		it.Costume = c.Image()
		it.Paint = c.Paint()
	}
	for _, info := range a.Texts() {
		t, err := s.textFor(info)
		if err != nil {
			s.logger.Warn("actor text", "actor", a.id, "text", info.Text, "err", err)
			continue
		}
		it.Texts = append(it.Texts, t)
	}
	s.comp.DrawActor(screen, it)
}

func (s *Session) drawGlobalText(screen *ebiten.Image, g globalText) {
	t, err := s.textFor(g.info)
	if err != nil {
		s.logger.Warn("text", "name", g.name, "err", err)
		return
	}
	t.Offset = cp.Vector{}
	s.comp.DrawText(screen, t, s.cam.WorldToScreen(g.info.Offset))
}

// textFor resolves the colour names of info.
func (s *Session) textFor(info TextInfo) (render.Text, error) {
	t := render.Text{Text: info.Text, Offset: info.Offset, Size: info.Size}
	if info.Color != "" {
		c, err := common.ParseColor(info.Color)
		if err != nil {
			return t, err
		}
		t.Color = c
	}
	if info.Background != "" {
		c, err := common.ParseColor(info.Background)
		if err != nil {
			return t, err
		}
		t.Background = c
	}
	return t, nil
}

func (s *Session) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.cfg.Width, s.cfg.Height
}

// OnFrame registers fn to run once per frame after input dispatch.
func (s *Session) OnFrame(fn func(*Session)) {
	if fn != nil {
		s.onFrame = append(s.onFrame, fn)
	}
}

// owns reports whether a is a live actor of this session.
func (s *Session) owns(a *Actor) bool {
	return a != nil && a.s == s && s.actors.Has(a.id)
}

func (s *Session) register(a *Actor) {
	s.actors.Set(a.id, a)
	s.order = append(s.order, a)
	s.byBody[a.body] = a
}

// Remove deletes a from the world together with its joints, handlers and
// camera follow. Removing a dead actor is a no-op.
func (s *Session) Remove(a *Actor) {
	if !s.owns(a) {
		return
	}
	s.world.RemoveBody(a.body)
	s.actors.Remove(a.id)
	s.store.Destroy(a.id)
	if s.handlers.registered(a) {
		s.handlers.forget(a.id)
	}
	delete(s.byBody, a.body)
	if s.follow.active && s.follow.target == a.id {
		s.StopFollowing()
	}
	for i, cur := range s.order {
		if cur == a {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.pruneJoints()
	s.logger.Debug("actor removed", "actor", a.id)
}

// Actor looks up a live actor by id.
func (s *Session) Actor(id ecs.Entity) (*Actor, error) {
	a, ok := s.actors.Get(id)
	if !ok {
		return nil, fmt.Errorf("gamejr: actor %s: %w", id, ErrUnknownActor)
	}
	return a, nil
}

// ActorForBody maps a physics body back to its actor.
func (s *Session) ActorForBody(b *cp.Body) (*Actor, bool) {
	a, ok := s.byBody[b]
	return a, ok
}

// Actors returns the live actors in creation order.
func (s *Session) Actors() []*Actor {
	return append([]*Actor(nil), s.order...)
}

// KeysPressed returns the held key names, sorted.
func (s *Session) KeysPressed() []string {
	return s.keys.Names()
}

func (s *Session) ButtonsPressed() []string {
	return s.buttons.Names()
}

// MouseXY is the last known cursor position in world space.
func (s *Session) MouseXY() cp.Vector {
	return s.cam.ScreenToWorld(s.mouse)
}

// MouseScreenXY is the last known cursor position in y-down screen pixels.
func (s *Session) MouseScreenXY() cp.Vector {
	return s.mouse
}

// SetCameraControls enables or disables the keyboard camera bindings.
func (s *Session) SetCameraControls(on bool) {
	s.controlsOn = on
}

// FollowActor keeps a inside the viewport. A zero opts uses the configured
// follow settings.
func (s *Session) FollowActor(a *Actor, opts camera.FollowOptions) {
	if !s.owns(a) {
		return
	}
	if opts == (camera.FollowOptions{}) {
		opts = s.cfg.Camera.Follow()
	}
	s.follow = follow{target: a.id, opts: opts, active: true}
}

func (s *Session) StopFollowing() {
	s.follow = follow{}
}

// Following returns the followed actor, if any.
func (s *Session) Following() (*Actor, bool) {
	if !s.follow.active {
		return nil, false
	}
	return s.actors.Get(s.follow.target)
}

// SetGravity changes gravity; y-negative pulls down.
func (s *Session) SetGravity(g cp.Vector) {
	s.world.SetGravity(g)
	s.cfg.Gravity = config.Gravity{X: g.X, Y: g.Y}
}

func (s *Session) Gravity() cp.Vector {
	return s.world.Gravity()
}

// Paused reports whether the pause menu is up.
func (s *Session) Paused() bool {
	return s.paused
}

func (s *Session) SetPaused(p bool) {
	if s.paused == p {
		return
	}
	s.paused = p
	s.logger.Debug("pause", "paused", p)
}

// AddText places a label at a world position held in info.Offset. An empty
// name uses the text; an existing name is replaced.
func (s *Session) AddText(info TextInfo, name string) {
	if name == "" {
		name = info.Text
	}
	for i, t := range s.texts {
		if t.name == name {
			s.texts[i].info = info
			return
		}
	}
	s.texts = append(s.texts, globalText{name: name, info: info})
}

func (s *Session) RemoveText(name string) error {
	for i, t := range s.texts {
		if t.name == name {
			s.texts = append(s.texts[:i], s.texts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("gamejr: remove text %q: %w", name, ErrUnknownText)
}

// Texts returns the session-wide labels in insertion order.
func (s *Session) Texts() []TextInfo {
	out := make([]TextInfo, 0, len(s.texts))
	for _, t := range s.texts {
		out = append(out, t.info)
	}
	return out
}

func (s *Session) Config() config.Config    { return s.cfg }
func (s *Session) Logger() *log.Logger      { return s.logger }
func (s *Session) World() *physics.World    { return s.world }
func (s *Session) Camera() *camera.Camera   { return s.cam }
func (s *Session) Assets() *assets.Cache    { return s.assets }
func (s *Session) Sound() *sound.Player     { return s.sound }
func (s *Session) HUD() *HUD                { return s.hud }
func (s *Session) Clock() time.Duration     { return s.clock }
func (s *Session) Frames() uint64           { return s.frames }
func (s *Session) ScreenSize() (int, int)   { return s.cfg.Width, s.cfg.Height }
func (s *Session) Input() input.Source      { return s.input }
func (s *Session) Store() *ecs.Store        { return s.store }
func (s *Session) Joints() []*physics.Joint { return append([]*physics.Joint(nil), s.joints...) }
