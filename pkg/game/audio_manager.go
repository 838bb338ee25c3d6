package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// TickSound 一次转动会话持有的滴答音效实例
//
// 会话开始时获取，每次扇区跨越调用 Play，会话结束时 Close 释放。
type TickSound interface {
	Play()
	Close() error
}

// TickSoundProvider 为转动会话提供滴答音效实例
type TickSoundProvider interface {
	AcquireTickSound() TickSound
}

// AudioManager 音频管理器
// 职责：
//   - 为每次转动会话创建独立的滴答音效播放器
//   - 从 SettingsManager 读取音效开关和音量
//
// 音频上下文为 nil 或音效被关闭时返回静音实例，调用方无需判空。
type AudioManager struct {
	audioContext    *audio.Context   // 全局音频上下文，可为 nil（无音频设备）
	settingsManager *SettingsManager // 设置管理器（用于读取音量设置，可为 nil）
	tickPCM         []byte           // 预先合成的滴答音效 PCM
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - audioContext: 全局音频上下文（采样率应为 TickSampleRate），可为 nil
//   - sm: SettingsManager 实例（可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(audioContext *audio.Context, sm *SettingsManager) *AudioManager {
	sampleRate := TickSampleRate
	if audioContext != nil {
		sampleRate = audioContext.SampleRate()
	}

	return &AudioManager{
		audioContext:    audioContext,
		settingsManager: sm,
		tickPCM:         SynthesizeTick(sampleRate),
	}
}

// AcquireTickSound 获取一个新的滴答音效实例
func (am *AudioManager) AcquireTickSound() TickSound {
	if am.audioContext == nil {
		return silentTickSound{}
	}

	volume := 0.8
	if am.settingsManager != nil {
		settings := am.settingsManager.GetSettings()
		if !settings.SoundEnabled {
			return silentTickSound{}
		}
		volume = settings.SoundVolume
	}

	player := am.audioContext.NewPlayerFromBytes(am.tickPCM)
	player.SetVolume(volume)

	return &playerTickSound{player: player}
}

// playerTickSound 基于 ebiten audio.Player 的滴答音效
type playerTickSound struct {
	player *audio.Player
}

// Play 从头播放（上一次尚未播完时直接重播）
func (s *playerTickSound) Play() {
	if err := s.player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind tick sound: %v", err)
	}
	s.player.Play()
}

// Close 释放播放器
func (s *playerTickSound) Close() error {
	return s.player.Close()
}

// silentTickSound 静音实例
type silentTickSound struct{}

func (silentTickSound) Play()        {}
func (silentTickSound) Close() error { return nil }
