package serviceImp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micampo/entities"
	"micampo/pkg/storage/repositoryImp"
)

func TestSummaryOfSeed(t *testing.T) {
	sum := newStore(t, repositoryImp.NewMemory()).Summary()

	assert.Equal(t, 470.0, sum.TotalHectares)
	assert.Equal(t, 0.75, sum.AverageNDVI)
	assert.Equal(t, 2, sum.OpenTasks)
	assert.Equal(t, 3, sum.Animals)
	assert.Equal(t, 47.0, sum.TotalMilk)
	assert.InDelta(t, 416.67, sum.AverageWeight, 0.01)
	assert.Empty(t, sum.LowStock)
	require.Len(t, sum.UrgentTasks, 1)
	assert.Equal(t, "Fumigar Lote 1", sum.UrgentTasks[0].Title)
}

func TestSummaryLowStockAndUrgentCap(t *testing.T) {
	s := newStore(t, repositoryImp.NewMemory())
	_, err := s.ConsumeSupply("3", 2500)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := s.AddTask(entities.Task{Title: fmt.Sprintf("Recorrer alambrado %d", i)})
		require.NoError(t, err)
	}

	sum := s.Summary()
	require.Len(t, sum.LowStock, 1)
	assert.Equal(t, "Gasoil", sum.LowStock[0].Name)
	assert.Equal(t, 6, sum.OpenTasks)
	require.Len(t, sum.UrgentTasks, 3)
	assert.Equal(t, "Fumigar Lote 1", sum.UrgentTasks[0].Title)
}

func TestSummaryOfEmptyFarm(t *testing.T) {
	sum := summarize(entities.FarmSnapshot{})
	assert.Zero(t, sum.AverageNDVI)
	assert.Zero(t, sum.AverageWeight)
	assert.NotNil(t, sum.LowStock)
	assert.NotNil(t, sum.UrgentTasks)
}

func TestAnimalsFilter(t *testing.T) {
	s := newStore(t, repositoryImp.NewMemory())
	name := "Lucera"
	_, err := s.AddAnimal(entities.Animal{RFID: "AR-002-001", Name: &name, Type: entities.AnimalOvine, WeightKg: 55})
	require.NoError(t, err)

	assert.Len(t, s.Animals(""), 4)
	assert.Len(t, s.Animals("ar-001"), 3)
	got := s.Animals("  LUC ")
	require.Len(t, got, 1)
	assert.Equal(t, "AR-002-001", got[0].RFID)
	assert.Empty(t, s.Animals("zzz"))
}
