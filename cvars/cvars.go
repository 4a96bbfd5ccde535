// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"goq3bsp/cvar"
)

var (
	RDrawLightmaps *cvar.Cvar
	RNoCull        *cvar.Cvar
	RNoVis         *cvar.Cvar
	RSubdivisions  *cvar.Cvar
)

func init() {
	RDrawLightmaps = cvar.MustRegister("r_lightmap", "1", cvar.ARCHIVE)
	RNoCull = cvar.MustRegister("r_nocull", "0", cvar.NONE)
	RNoVis = cvar.MustRegister("r_novis", "0", cvar.NONE)
	RSubdivisions = cvar.MustRegister("r_subdivisions", "8", cvar.ARCHIVE) // bezier patch steps
}
