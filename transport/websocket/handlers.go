package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
)

func (that *Server) handleConnect(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
	log := that.logger.With("method", "handleConnect")

	request, err := decode[ConnectRequest](payload)
	if err != nil {
		return nil, err
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, request.PlayerID, request.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player: %w", err)
	}

	if previous := c.PlayerID(); previous != "" && previous != player.ID {
		if that.hub.unregister(previous, c) {
			that.disconnect(previous)
		}
	}

	c.setPlayerID(player.ID)
	that.hub.register(player.ID, c)

	response := ConnectResponse{Player: player}

	resumed, err := that.uGame.Resume(ctx, player.ID)
	if err != nil {
		log.Error("failed to resume room", "playerID", player.ID, "error", err)
	} else if resumed != nil {
		response.Room = resumed
		log = log.With("roomID", resumed.ID)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return response, nil
}

func (that *Server) handleCreateRoom(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
	created, err := that.uGame.CreateRoom(ctx, c.PlayerID())
	if err != nil {
		return nil, err
	}

	return RoomResponse{Room: created}, nil
}

func (that *Server) handleJoinRoom(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
	request, err := decode[JoinRequest](payload)
	if err != nil {
		return nil, err
	}

	if request.RoomID == "" {
		return nil, apperror.ErrInvalidRequest
	}

	joined, err := that.uGame.JoinRoom(ctx, c.PlayerID(), request.RoomID)
	if err != nil {
		return nil, err
	}

	return RoomResponse{Room: joined}, nil
}

func (that *Server) handleStartGame(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
	started, err := that.uGame.StartGame(ctx, c.PlayerID())
	if err != nil {
		return nil, err
	}

	return RoomResponse{Room: started}, nil
}

func (that *Server) handleRoll(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
	outcome, err := that.uGame.RollDie(ctx, c.PlayerID())
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

func (that *Server) handleMove(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
	request, err := decode[MoveRequest](payload)
	if err != nil {
		return nil, err
	}

	outcome, err := that.uGame.MoveToken(ctx, c.PlayerID(), request.TokenID)
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

func (that *Server) handleLeave(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
	if err := that.uGame.LeaveRoom(ctx, c.PlayerID()); err != nil {
		return nil, err
	}

	return struct{}{}, nil
}

func (that *Server) handleListRooms(_ context.Context, _ *client, _ json.RawMessage) (any, error) {
	return ListResponse{Rooms: that.uGame.ListRooms()}, nil
}
