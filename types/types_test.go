package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // Flow side labels
		tokens := []string{"External", "internal", "ExternalInternal", "combined", ""}
		flags := []FlowSide{ExternalFlow, InternalFlow, ExternalInternalFlow, ExternalInternalFlow, ExternalFlow}
		for i, token := range tokens {
			fs, err := NewFlowSide(token)
			require.NoError(t, err)
			assert.Equal(t, flags[i], fs)
		}
		_, err := NewFlowSide("sideways")
		assert.Error(t, err)
		assert.Equal(t, "ExternalInternalFlow", ExternalInternalFlow.Print())
	}
	{ // Delta function labels
		tokens := []string{"Roma", "witchhat", "M4Prime", "cosine", ""}
		flags := []DDFType{DDF_Roma, DDF_Witchhat, DDF_M4Prime, DDF_Peskin4, DDF_Roma}
		for i, token := range tokens {
			dt, err := NewDDFType(token)
			require.NoError(t, err)
			assert.Equal(t, flags[i], dt)
		}
		_, err := NewDDFType("gaussian")
		assert.Error(t, err)
	}
	{ // Body configuration state machine
		assert.Equal(t, Unbounded, NewBodyConfig(0, MovingPoints))
		assert.Equal(t, StaticBodies, NewBodyConfig(2, StaticPoints))
		assert.Equal(t, MovingBodies, NewBodyConfig(1, MovingPoints))
		assert.Equal(t, "MovingBodies", MovingBodies.String())
		assert.Equal(t, "VariableFreestream", VariableFreestream.String())
	}
}
