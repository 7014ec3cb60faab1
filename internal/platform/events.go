package platform

// Event is an occurrence on the host windowing system.
type Event interface {
	isPlatformEvent()
}

// WindowShown fires when a window becomes visible and may need managing.
type WindowShown struct{ Window NativeWindow }

// WindowHidden fires when a window is no longer visible.
type WindowHidden struct{ Window NativeWindow }

// WindowDestroyed fires when a window is gone.
type WindowDestroyed struct{ Window NativeWindow }

// WindowFocused fires when the host focuses a window.
type WindowFocused struct{ Window NativeWindow }

// WindowMinimized fires when a window was minimized natively.
type WindowMinimized struct{ Window NativeWindow }

// WindowMinimizeEnded fires when a window was restored from minimized.
type WindowMinimizeEnded struct{ Window NativeWindow }

// WindowMovedOrResizedEnd fires once the user finished dragging a window
// edge or title bar.
type WindowMovedOrResizedEnd struct{ Window NativeWindow }

// DisplaySettingsChanged fires when monitors are added, removed or resized.
type DisplaySettingsChanged struct{}

func (WindowShown) isPlatformEvent()             {}
func (WindowHidden) isPlatformEvent()            {}
func (WindowDestroyed) isPlatformEvent()         {}
func (WindowFocused) isPlatformEvent()           {}
func (WindowMinimized) isPlatformEvent()         {}
func (WindowMinimizeEnded) isPlatformEvent()     {}
func (WindowMovedOrResizedEnd) isPlatformEvent() {}
func (DisplaySettingsChanged) isPlatformEvent()  {}
