package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

// Converter converts a single item.
type Converter interface {
	Convert(ctx context.Context, content []byte, filename, dataType string) (*model.WorkItem, error)
}

func sequentialConvert(ctx context.Context, conv Converter, items []model.WorkItem, res []*model.WorkItem) error {
	for idx, item := range items {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "item %d", idx)
		default:
		}

		out, err := conv.Convert(ctx, item.Content, item.Filename, item.Type)
		if err != nil {
			return errors.Wrapf(err, "item %d %s", idx, item.Filename)
		}

		res[idx] = out
	}

	return nil
}

func concurrentConvert(ctx context.Context, conv Converter, items []model.WorkItem, res []*model.WorkItem, concurrent int) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrent)

	for idx, item := range items {
		// we check the context again to make sure no new conversion starts after a failure
		if dCtx.Err() != nil {
			break
		}

		errGrp.Go(func() error {
			out, err := conv.Convert(dCtx, item.Content, item.Filename, item.Type)
			if err != nil {
				return errors.Wrapf(err, "item %d %s", idx, item.Filename)
			}

			// each goroutine writes its own index
			res[idx] = out

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return err
	}

	return errors.Wrap(ctx.Err(), "unable to convert all items")
}

// ConvertAll converts independent items with up to concurrent conversions running at once.
// Results are returned in the order of items. The first error stops the remaining conversions.
func ConvertAll(ctx context.Context, conv Converter, items []model.WorkItem, concurrent int) ([]*model.WorkItem, error) {
	if conv == nil {
		return nil, ErrRunnerMustBeSet
	}

	if concurrent <= 0 {
		concurrent = 1
	}

	res := make([]*model.WorkItem, len(items))

	var err error
	if concurrent == 1 {
		err = sequentialConvert(ctx, conv, items, res)
	} else {
		err = concurrentConvert(ctx, conv, items, res, concurrent)
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}
